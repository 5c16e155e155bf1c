package config

// Optional is a string that may be absent.
// The zero value is absent, which is distinct from Some("").
type Optional struct {
	value string
	set   bool
}

// Some returns a present Optional holding s
func Some(s string) Optional {
	return Optional{value: s, set: true}
}

// None returns an absent Optional
func None() Optional {
	return Optional{}
}

// OptionalFromPtr maps nil to None and anything else to Some
func OptionalFromPtr(s *string) Optional {
	if s == nil {
		return None()
	}
	return Some(*s)
}

// Get returns the value and whether it is present
func (o Optional) Get() (string, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present
func (o Optional) IsSet() bool {
	return o.set
}

// OrElse returns the value, or def when absent
func (o Optional) OrElse(def string) string {
	if !o.set {
		return def
	}
	return o.value
}

// Ptr returns nil when absent
func (o Optional) Ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

func (o Optional) String() string {
	if !o.set {
		return "<absent>"
	}
	return o.value
}
