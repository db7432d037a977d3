package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func TestJSONStrictMarshalKeepsHTML(t *testing.T) {
	out, err := JSONStrict.Marshal(map[string]string{"response": "<a&b>"})
	require.NoError(t, err)
	require.Equal(t, `{"response":"<a&b>"}`, string(out))
}

func TestJSONStrictRejectsUnknownAndTrailing(t *testing.T) {
	var s sample
	require.Error(t, JSONStrict.Unmarshal([]byte(`{"name":"a","extra":1}`), &s))
	require.Error(t, JSONStrict.Unmarshal([]byte(`{"name":"a"} {}`), &s))
	require.NoError(t, JSONStrict.Unmarshal([]byte(`{"name":"a"}`), &s))
	require.Equal(t, "a", s.Name)
}

func TestJSONIndented(t *testing.T) {
	out, err := JSONIndented.Marshal([]sample{{Name: "root", URL: "http://h:80/"}})
	require.NoError(t, err)
	require.Equal(t, "[\n  {\n    \"name\": \"root\",\n    \"url\": \"http://h:80/\"\n  }\n]", string(out))
	require.Equal(t, "application/json", JSONIndented.ContentType())

	var back []sample
	require.NoError(t, JSONIndented.Unmarshal(out, &back))
	require.Len(t, back, 1)
}
