package beans

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuilder_Build(t *testing.T) {
	engine := NewBuilder().
		WithOptions(WithCaseInsensitiveNames(true)).
		AddConverter("Name", MapString(strings.ToUpper)).
		AddConverterForPair(SourceBasic{}, DestBasic{}, "Email", MapString(strings.ToLower)).
		AddConstructor(DestBasic{}, func() (any, error) { return DestBasic{Age: -1}, nil }).
		Build()

	out, rep, err := AdaptTo[DestBasic](engine, &SourceBasic{Name: "ann", Email: "ANN@X.ORG"})
	require.NoError(t, err)
	assert.False(t, rep.Partial())
	assert.Equal(t, "ANN", out.Name)
	assert.Equal(t, "ann@x.org", out.Email)
	assert.Equal(t, 0, out.Age, "copy-all overwrites the constructor default")

	clone, _, err := Clone(engine, &DestBasic{Name: "z", Age: 7}, false)
	require.NoError(t, err)
	assert.Equal(t, 7, clone.Age)
	assert.Equal(t, "Z", clone.Name)
}

func TestBuilder_LaterRegistrationsKeepSeeded(t *testing.T) {
	engine := NewBuilder().AddConverter("Name", MapString(strings.ToUpper)).Build()
	engine.RegisterConverter("Email", MapString(strings.ToUpper))

	var out DestBasic
	_, err := engine.CopyAll(&out, &SourceBasic{Name: "a", Email: "b"})
	require.NoError(t, err)
	assert.Equal(t, DestBasic{Name: "A", Email: "B"}, out)
}

func TestEngine_LogsFieldIssues(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	engine := NewWithOptions(WithLogger(zap.New(core)))

	_, err := engine.CopyAll(&withHidden{}, &Address{Street: "x"})
	require.NoError(t, err)

	entries := logs.FilterField(zap.String("field", "Street")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "beans: field skipped", entries[0].Message)
}
