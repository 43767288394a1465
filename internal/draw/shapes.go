package draw

import "math"

// DrawCircle draws a circle outline at logical coordinates. The angular
// step adapts to the pixel-space radius so the outline stays closed at
// any scale.
func (c *Canvas) DrawCircle(center Point, radius float64, filled bool) {
	if radius <= 0 {
		c.SetFloat(center.X, center.Y)
		return
	}
	if filled {
		c.fillCircle(center, radius)
	}

	pixelRadius := radius * math.Max(c.scaleX, c.scaleY)
	steps := int(math.Ceil(2 * math.Pi * pixelRadius))
	if steps < 8 {
		steps = 8
	}
	for i := 0; i < steps; i++ {
		a := float64(i) / float64(steps) * 2 * math.Pi
		c.SetFloat(center.X+radius*math.Cos(a), center.Y+radius*math.Sin(a))
	}
}

// DrawDashedCircle draws an outline with alternating on/off arc
// segments, used for goal rings and range indicators.
func (c *Canvas) DrawDashedCircle(center Point, radius float64, dashes int) {
	if radius <= 0 || dashes <= 0 {
		return
	}
	pixelRadius := radius * math.Max(c.scaleX, c.scaleY)
	steps := int(math.Ceil(2 * math.Pi * pixelRadius))
	if steps < dashes*2 {
		steps = dashes * 2
	}
	segment := float64(steps) / float64(dashes*2)
	for i := 0; i < steps; i++ {
		if int(float64(i)/segment)%2 != 0 {
			continue
		}
		a := float64(i) / float64(steps) * 2 * math.Pi
		c.SetFloat(center.X+radius*math.Cos(a), center.Y+radius*math.Sin(a))
	}
}

// fillCircle fills by horizontal spans per scanline in logical space.
func (c *Canvas) fillCircle(center Point, radius float64) {
	yStep := 1.0 / c.scaleY
	xStep := 1.0 / c.scaleX
	for y := -radius; y <= radius; y += yStep {
		half := math.Sqrt(radius*radius - y*y)
		for x := -half; x <= half; x += xStep {
			c.SetFloat(center.X+x, center.Y+y)
		}
	}
}

// DrawEllipse draws an axis-aligned ellipse outline with semi-axes rx
// and ry at logical coordinates.
func (c *Canvas) DrawEllipse(center Point, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		return
	}
	pixelR := math.Max(rx*c.scaleX, ry*c.scaleY)
	steps := int(math.Ceil(2 * math.Pi * pixelR))
	if steps < 16 {
		steps = 16
	}
	for i := 0; i < steps; i++ {
		a := float64(i) / float64(steps) * 2 * math.Pi
		c.SetFloat(center.X+rx*math.Cos(a), center.Y+ry*math.Sin(a))
	}
}
