package asm

// Variable is a symbol table cell.
type Variable struct {
	Value       int64
	Initialized bool
	WasRead     bool
}

// Get the value, marking the variable as read.
func (v *Variable) Get() int64 {
	v.WasRead = true
	return v.Value
}

// Set the value, marking the variable as initialized.
func (v *Variable) Set(value int64) {
	v.Value = value
	v.Initialized = true
}

// Reset the variable to its uninitialized state.
func (v *Variable) Reset() {
	*v = Variable{}
}
