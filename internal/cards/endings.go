package cards

// TokenLines are lines included in the ending when a past token matches.
type TokenLines struct {
	Key   string   `yaml:"key"`
	Value string   `yaml:"value"`
	Lines []string `yaml:"lines"`
}

// Endings is the content the winning dialogue is assembled from.
type Endings struct {
	Speaker string       `yaml:"speaker"`
	Intro   []string     `yaml:"intro"`
	ByToken []TokenLines `yaml:"by_token"`
	Outro   []string     `yaml:"outro"`
	Lost    Dialogue     `yaml:"lost"`
}

// Compose builds the final dialogue from the choices the player made.
func (e Endings) Compose(tokens map[string]string) Dialogue {
	lines := append([]string{}, e.Intro...)
	for _, t := range e.ByToken {
		if v, ok := tokens[t.Key]; ok && v == t.Value {
			lines = append(lines, t.Lines...)
		}
	}
	lines = append(lines, e.Outro...)
	return Dialogue{Speaker: e.Speaker, Lines: lines}
}
