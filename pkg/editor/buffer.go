package editor

// Buffer is an in-memory Editor used by the headless driver and tests
type Buffer struct {
	content  string
	onSet    []func()
	onChange []func()
	sets     int
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) SetContent(content string) {
	b.content = content
	b.sets++
	for _, fn := range b.onSet {
		fn()
	}
}

func (b *Buffer) Content() string {
	return b.content
}

func (b *Buffer) OnSetContent(fn func()) {
	b.onSet = append(b.onSet, fn)
}

func (b *Buffer) OnChange(fn func()) {
	b.onChange = append(b.onChange, fn)
}

// Type replaces the content as if edited inside the editor
func (b *Buffer) Type(content string) {
	b.content = content
	for _, fn := range b.onChange {
		fn()
	}
}

// SetCount reports how many times SetContent was called
func (b *Buffer) SetCount() int {
	return b.sets
}
