// Package monitor runs the environmental monitor: a producer that samples
// the sensors once per period, a consumer that raises alerts and draws the
// display, and a selector that cycles display pages from a button.
//
// Readings travel producer to consumer through a Handoff. In the pipeline
// variant that is a subscription on the process bus, which also carries the
// telemetry lines. Running maxima and
// the display mode are single atomic words owned by their one writer.
package monitor

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"envmon/bus"
	"envmon/drivers/dht22"
	"envmon/drivers/ldr"
	"envmon/errcode"
	"envmon/hal"
	"envmon/logging"
	"envmon/services/config"
	"envmon/services/heartbeat"
	"envmon/services/telemetry"
	"envmon/types"
)

type Monitor struct {
	cfg config.Config
	log *slog.Logger
	bus *bus.Bus

	maxima  *MaximaCell
	mode    *ModeCell
	handoff Handoff
	telem   *telemetry.Service
	hb      *heartbeat.Indicator

	producer *Producer
	consumer *Consumer
	selector *Selector
}

// New validates cfg and wires the tasks onto hw.
func New(cfg config.Config, hw hal.Board, log *slog.Logger) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hw.DHT == nil || hw.Clock == nil || hw.Light == nil || hw.Display == nil || hw.Button == nil || hw.Sink == nil {
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "hardware", Msg: "missing collaborator"}
	}
	if log == nil {
		log = logging.Discard()
	}

	sensor := dht22.New(hw.DHT, hw.Clock)
	if err := sensor.Configure(DecoderConfig(cfg, hw)); err != nil {
		return nil, err
	}
	light := ldr.New(hw.Light, LightConfig(cfg))

	b := bus.NewBus(cfg.QueueCap)
	m := &Monitor{
		cfg:    cfg,
		log:    log,
		bus:    b,
		maxima: &MaximaCell{},
		mode:   NewModeCell(cfg.Modes),
		telem:  telemetry.New(b, hw.Sink, cfg.TelemetryCap, log.With("task", "telemetry")),
		hb:     heartbeat.New(hw.LED),
	}
	alerts := true
	switch cfg.Variant {
	case config.VariantSimple:
		m.handoff = NewLatestCell()
		alerts = false
	default:
		m.handoff = NewQueueHandoff(b, cfg.QueueCap, cfg.Policy(), cfg.QueueBlock)
	}

	m.producer = NewProducer(ProducerConfig{
		Sensor: sensor,
		Light:  light,
		Maxima: m.maxima,
		Out:    m.handoff,
		Tx:     m.telem,
		Beat:   m.hb,
		Log:    log.With("task", "producer"),
		Period: cfg.SamplePeriod,
	})
	m.consumer = NewConsumer(ConsumerConfig{
		In:      m.handoff,
		Display: hw.Display,
		Tx:      m.telem,
		Maxima:  m.maxima,
		Mode:    m.mode,
		Log:     log.With("task", "consumer"),
		Alerts:  alerts,
		Thresholds: Thresholds{
			TempHigh:  cfg.TempHigh,
			HumHigh:   cfg.HumHigh,
			LightLow:  cfg.LightLow,
			LightHigh: cfg.LightHigh,
		},
		Cols:           cfg.Cols,
		ReceiveTimeout: cfg.ReceiveTimeout,
		AlertDwell:     cfg.AlertDwell,
		Period:         cfg.DisplayPeriod,
		StartupDelay:   cfg.StartupDelay,
	})
	m.selector = NewSelector(hw.Button, m.mode, cfg.ButtonPoll, log.With("task", "selector"))
	return m, nil
}

// DecoderConfig maps cfg onto the single-wire decoder.
func DecoderConfig(cfg config.Config, hw hal.Board) dht22.Config {
	return dht22.Config{
		StartPulse:    cfg.StartPulse,
		ReleaseSettle: cfg.ReleaseSettle,
		SampleDelay:   cfg.SampleDelay,
		WaitTimeout:   cfg.WaitTimeout,
		Sleep:         hw.Sleep,
		Critical:      hw.Critical,
	}
}

// LightConfig maps cfg onto the light reader.
func LightConfig(cfg config.Config) ldr.Config {
	return ldr.Config{
		FullScale: cfg.LightFullScale,
		BandLow:   cfg.LightBandLow,
		BandHigh:  cfg.LightBandHigh,
		Timeout:   cfg.ADCTimeout,
	}
}

// Run starts every task and blocks until ctx is done or one of them fails.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("monitor starting", "variant", string(m.cfg.Variant), "board", m.cfg.Board)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.telem.Run(ctx) })
	g.Go(func() error { return m.producer.Run(ctx) })
	g.Go(func() error { return m.consumer.Run(ctx) })
	g.Go(func() error { return m.selector.Run(ctx) })
	err := g.Wait()
	m.log.Info("monitor stopped", "dropped", m.handoff.Dropped(), "telemetry_dropped", m.telem.Dropped())
	return err
}

// Bus is the process bus. Readings are on TopicReading in the pipeline
// variant and telemetry lines on telemetry.TopicLine in both.
func (m *Monitor) Bus() *bus.Bus { return m.bus }

func (m *Monitor) Maxima() types.Maxima    { return m.maxima.Load() }
func (m *Monitor) Mode() types.DisplayMode { return m.mode.Load() }
func (m *Monitor) Dropped() uint32         { return m.handoff.Dropped() }
func (m *Monitor) Beats() uint32           { return m.hb.Beats() }
