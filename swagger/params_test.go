package swagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveParameters(t *testing.T) {
	t.Run("required before optional", func(t *testing.T) {
		rule := Rule{Pattern: "/balloons/<balloon>/<string>/<color>/<helium>"}
		h := &fakeHandler{sig: Signature{
			Args:     []string{"self", "balloon", "string", "color", "helium"},
			Defaults: []string{"red", "true"},
		}}

		params := ResolveParameters(rule, h, nil, "self")
		assert.Equal(t, []Parameter{
			{Name: "balloon", In: "path", Type: "string", Required: true},
			{Name: "string", In: "path", Type: "string", Required: true},
			{Name: "color", In: "path", Type: "string", Required: false},
			{Name: "helium", In: "path", Type: "string", Required: false},
		}, params)
	})

	t.Run("typed placeholder", func(t *testing.T) {
		rule := Rule{Pattern: "/<int:balloon_id>/balloon/<color>"}
		h := &fakeHandler{sig: Signature{Args: []string{"self", "balloon_id", "color"}}}

		params := ResolveParameters(rule, h, nil, "self")
		require.Len(t, params, 2)
		assert.Equal(t, Parameter{Name: "balloon_id", In: "path", Type: "integer", Format: "int32", Required: true}, params[0])
		assert.Equal(t, Parameter{Name: "color", In: "path", Type: "string", Required: true}, params[1])
	})

	t.Run("float and uuid", func(t *testing.T) {
		rule := Rule{Pattern: "/m/<float:ratio>/<uuid:ref>"}
		h := &fakeHandler{sig: Signature{Args: []string{"self", "ratio", "ref"}}}

		params := ResolveParameters(rule, h, nil, "self")
		require.Len(t, params, 2)
		assert.Equal(t, "number", params[0].Type)
		assert.Equal(t, "float", params[0].Format)
		assert.Equal(t, "string", params[1].Type)
		assert.Equal(t, "uuid", params[1].Format)
	})

	t.Run("nil handler", func(t *testing.T) {
		params := ResolveParameters(Rule{Pattern: "/<id>"}, nil, nil, "self")
		assert.NotNil(t, params)
		assert.Empty(t, params)
	})

	t.Run("no receiver", func(t *testing.T) {
		rule := Rule{Pattern: "/<a>/<b>"}
		h := &fakeHandler{sig: Signature{Args: []string{"a", "b"}, Defaults: []string{"x"}}}

		params := ResolveParameters(rule, h, nil, "self")
		require.Len(t, params, 2)
		assert.True(t, params[0].Required)
		assert.False(t, params[1].Required)
	})

	t.Run("more defaults than args", func(t *testing.T) {
		rule := Rule{Pattern: "/<a>/<b>"}
		h := &fakeHandler{sig: Signature{
			Args:     []string{"self", "a", "b"},
			Defaults: []string{"1", "2", "3", "4"},
		}}

		params := ResolveParameters(rule, h, nil, "self")
		require.Len(t, params, 2)
		assert.True(t, params[0].Required)
		assert.True(t, params[1].Required)
	})

	t.Run("args outside the pattern", func(t *testing.T) {
		rule := Rule{Pattern: "/balloons/<balloon>"}
		h := &fakeHandler{sig: Signature{Args: []string{"self", "balloon", "verbose"}}}

		params := ResolveParameters(rule, h, nil, "self")
		require.Len(t, params, 1)
		assert.Equal(t, "balloon", params[0].Name)
	})

	t.Run("custom converters", func(t *testing.T) {
		rule := Rule{Pattern: "/<int:id>/<slug:name>"}
		h := &fakeHandler{sig: Signature{Args: []string{"this", "id", "name"}}}
		conv := Converters{
			"int":    {Type: "integer", Format: "int64"},
			"string": {Type: "string", Format: "text"},
		}

		params := ResolveParameters(rule, h, conv, "this")
		require.Len(t, params, 2)
		assert.Equal(t, "int64", params[0].Format)
		assert.Equal(t, "text", params[1].Format)
	})
}
