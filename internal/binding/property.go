package binding

// Property is a handle with all capabilities: value, velocity and
// acceleration.
type Property struct {
	Name  string
	Value float64
	Vel   float64
	Acc   float64
}

func (p *Property) Get() float64     { return p.Value }
func (p *Property) Set(v float64)    { p.Value = v }
func (p *Property) SetVel(v float64) { p.Vel = v }
func (p *Property) SetAcc(v float64) { p.Acc = v }

// Scalar is a handle over a plain float64 without derivative support.
type Scalar struct {
	V *float64
}

func (s Scalar) Get() float64  { return *s.V }
func (s Scalar) Set(v float64) { *s.V = v }
