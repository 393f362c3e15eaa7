package live

// TranscriptLine is one speaker's contiguous text.
type TranscriptLine struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Transcript accumulates fragments into lines. A fragment extends the last
// line while the same role keeps talking in the same turn; a role change or
// a completed turn starts a new line.
type Transcript struct {
	lines    []TranscriptLine
	turnOpen bool
}

// Add appends a fragment.
func (t *Transcript) Add(role Role, text string) {
	if text == "" {
		return
	}
	if n := len(t.lines); n > 0 && t.turnOpen && t.lines[n-1].Role == role {
		t.lines[n-1].Text += text
		return
	}
	t.lines = append(t.lines, TranscriptLine{Role: role, Text: text})
	t.turnOpen = true
}

// EndTurn closes the current turn.
func (t *Transcript) EndTurn() {
	t.turnOpen = false
}

// Lines returns a copy of the transcript.
func (t *Transcript) Lines() []TranscriptLine {
	out := make([]TranscriptLine, len(t.lines))
	copy(out, t.lines)
	return out
}
