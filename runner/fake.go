package runner

import "context"

// Call records one subprocess invocation seen by a Fake.
type Call struct {
	Dir  string
	Name string
	Args []string
}

func (c Call) Is(name string, args ...string) bool {
	if c.Name != name || len(c.Args) < len(args) {
		return false
	}
	for i, a := range args {
		if c.Args[i] != a {
			return false
		}
	}
	return true
}

// Fake is a Runner for tests. RunErr and OutputFn, when set, decide the
// result of each call; otherwise every call succeeds with empty output.
type Fake struct {
	Calls    []Call
	RunErr   func(c Call) error
	OutputFn func(c Call) (string, error)
}

var _ Runner = (*Fake)(nil)

func (f *Fake) Run(_ context.Context, dir string, name string, args ...string) error {
	c := Call{Dir: dir, Name: name, Args: args}
	f.Calls = append(f.Calls, c)
	if f.RunErr != nil {
		return f.RunErr(c)
	}
	return nil
}

func (f *Fake) Output(_ context.Context, dir string, name string, args ...string) (string, error) {
	c := Call{Dir: dir, Name: name, Args: args}
	f.Calls = append(f.Calls, c)
	if f.OutputFn != nil {
		return f.OutputFn(c)
	}
	return "", nil
}
