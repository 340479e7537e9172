package subtitle

// Process cleans an auto-generated SRT document with default options.
func Process(input string) string {
	out, _ := ProcessWithOptions(input, DefaultDedupeOptions())
	return out
}

// parses, dedupes and renders input with a fresh engine
func ProcessWithOptions(input string, opts DedupeOptions) (string, Stats) {
	d := NewDeduper(opts)
	out := RenderAll(d.All(Parse(input)))
	return out, d.Stats()
}
