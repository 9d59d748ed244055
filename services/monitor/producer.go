package monitor

import (
	"context"
	"log/slog"
	"time"

	"envmon/drivers/dht22"
	"envmon/drivers/ldr"
	"envmon/errcode"
	"envmon/logging"
	"envmon/types"
	"envmon/x/conv"
	"envmon/x/mathx"
)

// Sensor is the single-wire humidity/temperature source.
type Sensor interface {
	Read() (dht22.Measurement, error)
}

// LightMeter is the analog light source.
type LightMeter interface {
	Read() (ldr.Sample, error)
}

// Lines accepts telemetry text without blocking. Send must not retain line.
type Lines interface {
	Send(line []byte) bool
}

// Beater is toggled once per cycle.
type Beater interface{ Beat() }

type Producer struct {
	sensor Sensor
	light  LightMeter
	maxima *MaximaCell
	out    Handoff
	tx     Lines
	hb     Beater
	log    *slog.Logger
	period time.Duration

	seq  uint32
	line []byte
}

type ProducerConfig struct {
	Sensor Sensor
	Light  LightMeter
	Maxima *MaximaCell
	Out    Handoff
	Tx     Lines
	Beat   Beater
	Log    *slog.Logger
	Period time.Duration
}

func NewProducer(c ProducerConfig) *Producer {
	if c.Period <= 0 {
		c.Period = time.Second
	}
	if c.Log == nil {
		c.Log = logging.Discard()
	}
	return &Producer{
		sensor: c.Sensor, light: c.Light, maxima: c.Maxima, out: c.Out,
		tx: c.Tx, hb: c.Beat, log: c.Log, period: c.Period,
		line: make([]byte, 0, 64),
	}
}

// Cycle performs one acquisition and publishes it. It never fails; sensor
// problems are carried as flags on the returned reading.
func (p *Producer) Cycle() types.Reading {
	if p.hb != nil {
		p.hb.Beat()
	}
	p.seq++
	r := types.Reading{Seq: p.seq}

	s, lerr := p.light.Read()
	r.RawAnalog, r.LightPct, r.LightOK = s.Raw, s.Pct, s.OK
	if lerr != nil {
		r.LightOK = false
		r.LightErr = errcode.Of(lerr)
		p.log.Warn("light read failed", "code", string(r.LightErr), "raw", s.Raw, "pct", s.Pct)
	}

	m, err := p.sensor.Read()
	if err != nil {
		r.SensorErr = errcode.Of(err)
		p.log.Warn("sensor read failed", "code", string(r.SensorErr), "err", err)
	} else {
		r.SensorOK = true
		r.TempDeci, r.HumDeci = m.TemperatureDeci, m.HumidityDeci
		r.TemperatureC = int16(m.Temperature())
		r.HumidityPct = uint8(mathx.Clamp(m.Humidity(), 0, 100))
	}

	if p.maxima != nil {
		if mx, raised := p.maxima.Observe(r); raised {
			p.log.Debug("maxima raised", "temp_c", mx.TemperatureC, "hum_pct", mx.HumidityPct, "light_pct", mx.LightPct)
		}
	}

	if p.tx != nil {
		p.tx.Send(p.summary(r))
	}
	if err := p.out.Publish(r); err != nil {
		p.log.Debug("reading dropped", "code", string(errcode.Of(err)), "seq", r.Seq, "dropped", p.out.Dropped())
	}
	return r
}

// summary formats the telemetry line for r into the reused buffer.
func (p *Producer) summary(r types.Reading) []byte {
	b := p.line[:0]
	if !r.SensorOK {
		b = append(b, "DHT sensor error\r\n"...)
	} else {
		b = append(b, "Temp: "...)
		b = conv.AppendInt(b, int64(r.TemperatureC))
		b = append(b, "C  Hum: "...)
		b = conv.AppendInt(b, int64(r.HumidityPct))
		b = append(b, "%  Light: "...)
		b = conv.AppendInt(b, int64(r.LightPct))
		b = append(b, "%\r\n"...)
	}
	p.line = b
	return b
}

// Run samples immediately and then once per period until ctx is done.
func (p *Producer) Run(ctx context.Context) error {
	p.log.Info("producer started", "period", p.period)
	tick := time.NewTicker(p.period)
	defer tick.Stop()
	p.Cycle()
	for {
		select {
		case <-ctx.Done():
			p.log.Info("producer stopping")
			return nil
		case <-tick.C:
			p.Cycle()
		}
	}
}
