package strx

// Coalesce returns s if non-empty, otherwise d.
func Coalesce(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// Fit pads b with spaces or truncates it to exactly width bytes.
func Fit(b []byte, width int) []byte {
	if width < 0 {
		width = 0
	}
	if len(b) >= width {
		return b[:width]
	}
	for len(b) < width {
		b = append(b, ' ')
	}
	return b
}

// PadTo appends spaces to b until it is at least width bytes long.
func PadTo(b []byte, width int) []byte {
	for len(b) < width {
		b = append(b, ' ')
	}
	return b
}
