package manifest

// EndpointKind enumerates the handler kinds a manifest can declare.
type EndpointKind string

const (
	KindDiscovery EndpointKind = "discovery"
	KindStatic    EndpointKind = "static"
	KindInproc    EndpointKind = "inproc"
)

// Config is the top-level host manifest.
type Config struct {
	Server    Server     `toml:"server"`
	Endpoints []Endpoint `toml:"endpoint"`
}

type Server struct {
	Prefix             string `toml:"prefix"`     // e.g. "http://*:5678"
	KeepAlive          bool   `toml:"keep_alive"` // default false: Connection: close
	MetricsPath        string `toml:"metrics_path"`
	MetricsCredentials string `toml:"metrics_credentials"`
	HeartbeatPath      string `toml:"heartbeat_path"`
	ReadTimeoutMS      int    `toml:"read_timeout_ms"`
	WriteTimeoutMS     int    `toml:"write_timeout_ms"`
	IdleTimeoutMS      int    `toml:"idle_timeout_ms"`
}

type Endpoint struct {
	Name        string       `toml:"name"`
	Type        string       `toml:"type"`
	Path        string       `toml:"path"`
	Credentials string       `toml:"credentials"` // "user:pass,user2:pass2"
	Kind        EndpointKind `toml:"kind"`
	Static      *StaticSpec  `toml:"static,omitempty"`
	Inproc      *InprocSpec  `toml:"inproc,omitempty"`
}

// StaticSpec answers GET with a fixed status and body.
type StaticSpec struct {
	Status      int    `toml:"status"`
	Content     string `toml:"content"`
	ContentType string `toml:"content_type"`
}

// InprocSpec names registered functions per verb.
type InprocSpec struct {
	Get    string `toml:"get"`
	Post   string `toml:"post"`
	Put    string `toml:"put"`
	Delete string `toml:"delete"`
}

func (s *InprocSpec) names() []string {
	return []string{s.Get, s.Post, s.Put, s.Delete}
}
