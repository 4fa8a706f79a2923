package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var widgetSchema = Schema{
	{Name: "latency", Kind: KindTicks, Doc: "processing delay"},
	{Name: "depth", Kind: KindInt, Default: int64(4), Doc: "queue depth"},
	{Name: "size", Kind: KindBytes, Default: "1kB", Doc: "buffer size"},
	{Name: "rate", Kind: KindBandwidth, Default: "100MB/s", Doc: "drain rate"},
	{Name: "label", Kind: KindString, Default: "", Doc: "display label"},
	{Name: "enabled", Kind: KindBool, Default: true, Doc: "participate in runs"},
	{Name: "scale", Kind: KindFloat, Default: 1.0, Doc: "scaling factor"},
	{Name: "peer", Kind: KindRef, Default: NullRef, Doc: "optional peer"},
}

func TestBind_SuppliedAndDefaultedFields(t *testing.T) {
	rec, err := Bind("Widget", "root.w", widgetSchema, map[string]any{
		"latency": "100ns",
		"depth":   8,
		"peer":    "root.other",
	})
	require.NoError(t, err)

	assert.Equal(t, "root.w", rec.Name())
	assert.Equal(t, "Widget", rec.TypeName())
	assert.Equal(t, int64(100000), rec.Ticks("latency"))
	assert.Equal(t, int64(8), rec.Int("depth"))
	assert.Equal(t, int64(1024), rec.Bytes("size"))
	assert.InDelta(t, float64(Second)/float64(100<<20), rec.Bandwidth("rate"), 1e-6)
	assert.Equal(t, "", rec.String("label"))
	assert.True(t, rec.Bool("enabled"))
	assert.InDelta(t, 1.0, rec.Float("scale"), 1e-9)
	assert.Equal(t, "root.other", rec.Ref("peer").Path())
	assert.False(t, rec.Ref("peer").IsNil())
}

func TestBind_MissingRequiredField_Fails(t *testing.T) {
	// "latency" has no default, so omitting it must fail before any
	// component could be constructed.
	_, err := Bind("Widget", "root.w", widgetSchema, map[string]any{"depth": 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingParam)
	assert.Contains(t, err.Error(), "root.w")
	assert.Contains(t, err.Error(), "latency")
}

func TestBind_UnknownField_Fails(t *testing.T) {
	_, err := Bind("Widget", "root.w", widgetSchema, map[string]any{
		"latency": 10,
		"bogus":   1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownParam)
	assert.Contains(t, err.Error(), "bogus")
}

func TestBind_ConversionFailure_Fails(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"bad duration", map[string]any{"latency": "10 parsecs"}},
		{"wrong type for bool", map[string]any{"latency": 10, "enabled": "yes"}},
		{"fractional int", map[string]any{"latency": 10, "depth": 2.5}},
		{"wrong type for ref", map[string]any{"latency": 10, "peer": 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bind("Widget", "root.w", widgetSchema, tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrBadValue)
		})
	}
}

func TestBind_NullReference(t *testing.T) {
	// An absent optional ref, an explicit YAML null, and an empty string
	// all bind to the null handle.
	for _, raw := range []map[string]any{
		{"latency": 10},
		{"latency": 10, "peer": nil},
		{"latency": 10, "peer": ""},
	} {
		rec, err := Bind("Widget", "root.w", widgetSchema, raw)
		require.NoError(t, err)
		h := rec.Ref("peer")
		assert.True(t, h.IsNil())
		_, err = h.Resolve()
		assert.Error(t, err)
	}
}

func TestBind_RequiredReference(t *testing.T) {
	schema := Schema{{Name: "target", Kind: KindRef, Doc: "mandatory peer"}}
	_, err := Bind("Widget", "root.w", schema, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingParam)
}

func TestBind_IsIdempotentAndPure(t *testing.T) {
	raw := map[string]any{"latency": "10ns", "depth": 2}

	rec1, err := Bind("Widget", "root.w", widgetSchema, raw)
	require.NoError(t, err)
	rec2, err := Bind("Widget", "root.w", widgetSchema, raw)
	require.NoError(t, err)

	// Same inputs, same record, and the raw map is untouched.
	assert.Equal(t, rec1.values, rec2.values)
	assert.Equal(t, map[string]any{"latency": "10ns", "depth": 2}, raw)
}

func TestRecord_GetterMismatch_Panics(t *testing.T) {
	rec, err := Bind("Widget", "root.w", widgetSchema, map[string]any{"latency": 10})
	require.NoError(t, err)

	assert.Panics(t, func() { rec.Int("no-such-field") })
	assert.Panics(t, func() { rec.Bool("latency") })
	assert.Panics(t, func() { rec.Ref("depth") })
}
