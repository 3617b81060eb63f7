package region

// Metrics holds the lengths used for region geometry and chrome, in the
// coordinate space the region lives in.
type Metrics struct {
	Density float64

	DefaultSize float64
	RectMin     float64
	CopyOffset  float64
	FrameMargin float64
	Slop        float64

	StrokeWidth  float64
	DotRadius    float64
	DotHitRadius float64
	HandleSize   float64

	BorderWidth       float64
	NarrowBorderWidth float64
	NarrowThreshold   float64

	MenuWidth    float64
	MenuHeight   float64
	MenuMargin   float64
	ButtonSize   float64
	ButtonOffset float64
	ButtonInset  float64
}

// DefaultMetrics returns the standard metrics for a display density.
func DefaultMetrics(density float64) Metrics {
	if density <= 0 {
		density = 1
	}
	return Metrics{
		Density:     density,
		DefaultSize: 88 * density,
		RectMin:     18 * density,
		CopyOffset:  16 * density,
		FrameMargin: 6 * density,
		Slop:        10,

		StrokeWidth:  2 * density,
		DotRadius:    4 * density,
		DotHitRadius: 3 * density,
		HandleSize:   24 * density,

		BorderWidth:       16 * density,
		NarrowBorderWidth: 4 * density,
		NarrowThreshold:   64 * density,

		MenuWidth:    104 * density,
		MenuHeight:   40 * density,
		MenuMargin:   22 * density,
		ButtonSize:   24 * density,
		ButtonOffset: 11 * density,
		ButtonInset:  8 * density,
	}
}

// Scale returns m with every length multiplied by f. The app uses it to
// keep chrome a constant on-screen size while zoomed.
func (m Metrics) Scale(f float64) Metrics {
	if f <= 0 || f == 1 {
		return m
	}
	m.Density *= f
	m.DefaultSize *= f
	m.RectMin *= f
	m.CopyOffset *= f
	m.FrameMargin *= f
	m.Slop *= f
	m.StrokeWidth *= f
	m.DotRadius *= f
	m.DotHitRadius *= f
	m.HandleSize *= f
	m.BorderWidth *= f
	m.NarrowBorderWidth *= f
	m.NarrowThreshold *= f
	m.MenuWidth *= f
	m.MenuHeight *= f
	m.MenuMargin *= f
	m.ButtonSize *= f
	m.ButtonOffset *= f
	m.ButtonInset *= f
	return m
}
