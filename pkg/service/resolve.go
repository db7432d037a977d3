package service

import "strings"

// Match is the outcome of resolving a request path.
type Match struct {
	Handler Handler
	// Path is the longest registered prefix of the request path.
	Path string
	// Unmatched holds the remaining non-empty segments, root to leaf.
	Unmatched []string
}

// Resolve finds the handler for path. It tries the whole path first, then
// strips one trailing segment at a time, ending with "/" as a catch-all when
// one is registered.
func (r *Registry) Resolve(path string) (Match, error) {
	if h, ok := r.Lookup(path); ok {
		return Match{Handler: h, Path: path}, nil
	}

	var stripped []string // leaf to root
	cur := path
	for {
		i := strings.LastIndexByte(cur, '/')
		if i < 0 {
			break
		}
		if seg := cur[i+1:]; seg != "" {
			stripped = append(stripped, seg)
		}
		if i == 0 {
			if h, ok := r.Lookup("/"); ok {
				return Match{Handler: h, Path: "/", Unmatched: reverse(stripped)}, nil
			}
			break
		}
		cur = cur[:i]
		if h, ok := r.Lookup(cur); ok {
			return Match{Handler: h, Path: cur, Unmatched: reverse(stripped)}, nil
		}
	}
	return Match{}, notSupported(path)
}

func reverse(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
