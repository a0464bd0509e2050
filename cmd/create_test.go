package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/gnames/gngeo/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countCountries(t *testing.T) int {
	t.Helper()
	op, err := connect(context.Background())
	require.NoError(t, err)
	defer op.Close()
	var n int
	require.NoError(t, op.DB().Get(&n,
		"SELECT count(*) FROM "+schema.Country{}.TableName()))
	return n
}

func TestGetCreateCmd(t *testing.T) {
	cmd := getCreateCmd()
	assert.Equal(t, "create", cmd.Use)
	assert.Contains(t, cmd.Long, "gngeo create -f --fulltext")

	tests := []struct {
		name, short, def string
	}{
		{"force", "f", "false"},
		{"fulltext", "", "false"},
	}
	for _, v := range tests {
		f := cmd.Flags().Lookup(v.name)
		require.NotNil(t, f, v.name)
		assert.Equal(t, v.short, f.Shorthand, v.name)
		assert.Equal(t, v.def, f.DefValue, v.name)
	}
}

func TestRunCreateConfirmation(t *testing.T) {
	useStore(t)
	orig := stdin
	t.Cleanup(func() { stdin = orig })

	tests := []struct {
		msg    string
		answer string
		force  bool
		count  int
	}{
		{"declined", "no\n", false, 2},
		{"no answer", "", false, 2},
		{"accepted", "yes\n", false, 0},
		{"forced", "", true, 0},
	}

	for _, v := range tests {
		require.NoError(t, runCountriesEnable([]string{"IT", "FR"}, ""), v.msg)
		stdin = strings.NewReader(v.answer)
		require.NoError(t, runCreate(v.force), v.msg)
		assert.Equal(t, v.count, countCountries(t), v.msg)
	}
}

func TestCreateFullTextFlag(t *testing.T) {
	useStore(t)
	cfg.Search.UseFullText = false

	cmd := getCreateCmd()
	cmd.SetArgs([]string{"--force", "--fulltext"})
	require.NoError(t, cmd.Execute())
	assert.True(t, cfg.Search.UseFullText)
}
