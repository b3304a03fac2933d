package config

// Kind tags the shape a script entry was decoded from.
type Kind int

const (
	// KindOther covers values that carry no command: numbers, booleans, null,
	// and mappings without any of prefix/working_dir/cmd.
	KindOther Kind = iota
	// KindPlain is a single command string.
	KindPlain
	// KindSequence is a list of command strings and/or step mappings.
	KindSequence
	// KindGroup is a mapping carrying at least one of prefix, working_dir, cmd.
	// It acts as group defaults for "name:member" scripts and as a runnable
	// config entry when invoked directly.
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindSequence:
		return "sequence"
	case KindGroup:
		return "group"
	default:
		return "other"
	}
}

// Entry is one value of the scripts mapping, decoded into a tagged union.
type Entry struct {
	Kind Kind

	// Text is the command for KindPlain and the display form for KindOther.
	Text string

	// Steps holds the flattened items of a KindSequence entry in order.
	Steps []Step

	// Prefix and WorkingDir are nil when the key is absent from a KindGroup
	// mapping. A present but empty value means "explicitly none".
	Prefix     *string
	WorkingDir *string

	// Cmd holds the commands of a KindGroup mapping; HasCmd reports whether
	// the cmd key was present at all.
	Cmd    []string
	HasCmd bool

	// Empty marks values YAML considers falsy (null, "", 0, false, {}, []).
	Empty bool
}

// IsGroupDefinition reports whether the entry can supply group defaults.
func (e Entry) IsGroupDefinition() bool {
	return e.Kind == KindGroup
}

// Step is one item of a sequence entry: either a plain command string or a
// mapping contributing the commands under its cmd key.
type Step struct {
	Commands []string
	// Mapping is true for step mappings, false for plain string items.
	Mapping bool
	// HasCmd is false for step mappings without a cmd key.
	HasCmd bool
	// Raw is the inline display form used for mappings without cmd.
	Raw string
}

// Scripts is the ordered scripts mapping. Lookups are exact string matches.
type Scripts struct {
	names   []string
	entries map[string]Entry
}

// NewScripts builds a Scripts mapping from parallel name/entry slices. Later
// duplicates replace earlier ones but keep the first position.
func NewScripts(names []string, entries []Entry) *Scripts {
	s := &Scripts{entries: make(map[string]Entry, len(names))}
	for i, name := range names {
		s.Set(name, entries[i])
	}
	return s
}

// Set adds or replaces the entry under name.
func (s *Scripts) Set(name string, e Entry) {
	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}
	if _, ok := s.entries[name]; !ok {
		s.names = append(s.names, name)
	}
	s.entries[name] = e
}

// Lookup returns the entry stored under name.
func (s *Scripts) Lookup(name string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	e, ok := s.entries[name]
	return e, ok
}

// Names returns script names in file order.
func (s *Scripts) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Len returns the number of scripts.
func (s *Scripts) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// DownloadSpec is one named entry of the downloads section.
type DownloadSpec struct {
	Name         string           `yaml:"-"`
	Destination  string           `yaml:"destination"`
	Overwrite    bool             `yaml:"overwrite"`
	Verbose      *bool            `yaml:"verbose"`
	RaiseOnError bool             `yaml:"raise_on_error"`
	Files        []FileDescriptor `yaml:"files"`
	// Err is set when the entry could not be decoded.
	Err error `yaml:"-"`
}

// IsVerbose returns the verbose flag, defaulting to true when unset.
func (d DownloadSpec) IsVerbose() bool {
	if d.Verbose == nil {
		return true
	}
	return *d.Verbose
}

// FileDescriptor describes one file of a download spec.
type FileDescriptor struct {
	URL         string `yaml:"url"`
	Filename    string `yaml:"filename"`
	Name        string `yaml:"name"`
	Destination string `yaml:"destination"`
	Overwrite   *bool  `yaml:"overwrite"`
	Integrity   string `yaml:"integrity"`
	// Extract unpacks a downloaded archive into the destination directory.
	Extract bool `yaml:"extract"`
}

// ExplicitName returns filename, falling back to name.
func (f FileDescriptor) ExplicitName() string {
	if f.Filename != "" {
		return f.Filename
	}
	return f.Name
}

// DestinationFor returns the file's destination override or the download spec's.
func (f FileDescriptor) DestinationFor(spec DownloadSpec) string {
	if f.Destination != "" {
		return f.Destination
	}
	return spec.Destination
}

// OverwriteFor returns the file's overwrite override or the download spec's.
func (f FileDescriptor) OverwriteFor(spec DownloadSpec) bool {
	if f.Overwrite != nil {
		return *f.Overwrite
	}
	return spec.Overwrite
}

// Project is the parsed project file. It is immutable once loaded.
type Project struct {
	Name    string
	Path    string
	Scripts *Scripts
	// Vars holds the vars/variables section with every value as a string.
	Vars      map[string]string
	Downloads []DownloadSpec
	// DownloadsErr is set when the downloads section is not a mapping.
	DownloadsErr error
}

// Download returns the download spec registered under name.
func (p *Project) Download(name string) (DownloadSpec, bool) {
	for _, d := range p.Downloads {
		if d.Name == name {
			return d, true
		}
	}
	return DownloadSpec{}, false
}

// DownloadNames returns download spec names in file order.
func (p *Project) DownloadNames() []string {
	names := make([]string, 0, len(p.Downloads))
	for _, d := range p.Downloads {
		names = append(names, d.Name)
	}
	return names
}
