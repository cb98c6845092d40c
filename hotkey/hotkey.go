// Package hotkey delivers the global push-to-talk combination
// (Ctrl+Shift+Space) as keydown and keyup signals.
package hotkey

// Hotkey channels are buffered by one and drop signals nobody reads.
type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}

// Fake is a Hotkey pressed by hand: by the stdin script driver and by tests.
type Fake struct {
	keydown chan struct{}
	keyup   chan struct{}
}

func NewFake() *Fake {
	return &Fake{
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}
}

func (f *Fake) Register() error          { return nil }
func (f *Fake) Unregister()              {}
func (f *Fake) Keydown() <-chan struct{} { return f.keydown }
func (f *Fake) Keyup() <-chan struct{}   { return f.keyup }

// Down and Up block until the previous signal of the same kind was read.
func (f *Fake) Down() { f.keydown <- struct{}{} }
func (f *Fake) Up()   { f.keyup <- struct{}{} }
