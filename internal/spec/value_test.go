package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseScalarNumber(t *testing.T) {
	v := ParseScalar("1800")
	assert.Equal(t, KindNumber, v.Kind)
	assert.Equal(t, 1800.0, v.Num)
	assert.True(t, v.Int)
	assert.Equal(t, "1800", v.PyLiteral())
}

func TestParseScalarFloat(t *testing.T) {
	v := ParseScalar("0.95")
	assert.Equal(t, KindNumber, v.Kind)
	assert.False(t, v.Int)
	assert.Equal(t, "0.95", v.PyLiteral())
}

func TestParseScalarBool(t *testing.T) {
	assert.Equal(t, "True", ParseScalar("true").PyLiteral())
	assert.Equal(t, "False", ParseScalar("off").PyLiteral())
}

func TestParseScalarString(t *testing.T) {
	v := ParseScalar("hot")
	assert.Equal(t, KindString, v.Kind)
	assert.Equal(t, `"hot"`, v.PyLiteral())
}

func TestParseScalarQuotedString(t *testing.T) {
	v := ParseScalar(`"nominal"`)
	assert.Equal(t, KindString, v.Kind)
	assert.Equal(t, "nominal", v.Str)
}

func TestPyLiteralFloatAlwaysHasPoint(t *testing.T) {
	v := Float(25)
	assert.Equal(t, "25.0", v.PyLiteral())
}

func TestPyLiteralStringEscaped(t *testing.T) {
	v := StringValue(`say "hi"` + "\nbye")
	assert.Equal(t, `"say \"hi\"\nbye"`, v.PyLiteral())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Number(25).Equal(Number(25)))
	assert.False(t, Number(25).Equal(StringValue("25")))
	assert.False(t, BoolValue(true).Equal(BoolValue(false)))
}

func TestValueYAMLRoundTrip(t *testing.T) {
	var v Value
	require.NoError(t, yaml.Unmarshal([]byte("25"), &v))
	assert.Equal(t, KindNumber, v.Kind)
	assert.True(t, v.Int)

	require.NoError(t, yaml.Unmarshal([]byte("0.95"), &v))
	assert.Equal(t, KindNumber, v.Kind)
	assert.False(t, v.Int)

	require.NoError(t, yaml.Unmarshal([]byte("true"), &v))
	assert.Equal(t, KindBool, v.Kind)

	require.NoError(t, yaml.Unmarshal([]byte(`"hot"`), &v))
	assert.Equal(t, KindString, v.Kind)
	assert.Equal(t, "hot", v.Str)
}

func TestValueYAMLRejectsSequence(t *testing.T) {
	var v Value
	err := yaml.Unmarshal([]byte("[1, 2]"), &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scalar")
}

func TestValueJSONRoundTrip(t *testing.T) {
	var v Value
	require.NoError(t, v.UnmarshalJSON([]byte("1800")))
	assert.Equal(t, "1800", v.PyLiteral())

	data, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "1800", string(data))

	require.NoError(t, v.UnmarshalJSON([]byte(`"hot"`)))
	assert.Equal(t, KindString, v.Kind)
}
