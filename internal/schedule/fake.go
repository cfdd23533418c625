package schedule

// Fake is an in-memory Scheduler for tests.
type Fake struct {
	// Armed maps script path -> installed entries.
	Armed map[string][]string

	// ArmCalls and DisarmCalls record invocation order.
	ArmCalls    []string
	DisarmCalls []string
}

// NewFake creates an empty fake scheduler.
func NewFake() *Fake {
	return &Fake{Armed: make(map[string][]string)}
}

func (f *Fake) Arm(scriptPath string) error {
	f.ArmCalls = append(f.ArmCalls, scriptPath)
	f.Armed[scriptPath] = entriesFor(scriptPath, 5)
	return nil
}

func (f *Fake) Disarm(scriptPath string) error {
	f.DisarmCalls = append(f.DisarmCalls, scriptPath)
	delete(f.Armed, scriptPath)
	return nil
}

func (f *Fake) Entries(scriptPath string) ([]string, error) {
	return f.Armed[scriptPath], nil
}
