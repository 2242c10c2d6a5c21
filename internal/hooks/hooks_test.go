package hooks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHook(t *testing.T) {
	tests := []struct {
		name      string
		hook      Hook
		wantErr   bool
		errSubstr string
	}{
		{
			name: "command succeeds",
			hook: Hook{Command: "true"},
		},
		{
			name:      "empty command returns error",
			hook:      Hook{Command: ""},
			wantErr:   true,
			errSubstr: "empty command",
		},
		{
			name:      "whitespace-only command returns error",
			hook:      Hook{Command: "   "},
			wantErr:   true,
			errSubstr: "empty command",
		},
		{
			name:      "non-zero exit with error_on_fail returns error",
			hook:      Hook{Command: "false", ErrorOnFail: true},
			wantErr:   true,
			errSubstr: "exited with code 1",
		},
		{
			name: "non-zero exit without error_on_fail continues",
			hook: Hook{Command: "false"},
		},
		{
			name: "custom acceptable exit codes",
			hook: Hook{Command: "false", ExitCodes: []int{1}, ErrorOnFail: true},
		},
		{
			name:      "zero exit rejected by custom codes",
			hook:      Hook{Command: "true", ExitCodes: []int{3}, ErrorOnFail: true},
			wantErr:   true,
			errSubstr: "expected [3]",
		},
		{
			name:    "missing program with error_on_fail",
			hook:    Hook{Command: "smoke-no-such-program-xyz", ErrorOnFail: true},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &Runner{}
			err := r.run(context.Background(), "test", 0, tc.hook)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tc.errSubstr != "" {
				assert.Contains(t, err.Error(), tc.errSubstr)
			}
		})
	}
}

func TestExecute_StopsAtFirstFatalHook(t *testing.T) {
	dir := t.TempDir()
	r := &Runner{BaseDir: dir}

	err := r.Execute(context.Background(), BeforeRun, []Hook{
		{Command: "false", ErrorOnFail: true},
		{Command: "touch marker"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before_run[0]")

	_, statErr := os.Stat(filepath.Join(dir, "marker"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExecute_RelativeDirResolvesAgainstBase(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "sub"), 0o755))

	r := &Runner{BaseDir: base}
	require.NoError(t, r.Execute(context.Background(), BeforeRun, []Hook{
		{Command: "touch marker", Dir: "sub", ErrorOnFail: true},
	}))

	assert.FileExists(t, filepath.Join(base, "sub", "marker"))
}

func TestExecute_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{}
	err := r.Execute(ctx, "test", []Hook{{Command: "echo hello"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}

func TestExecute_ContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	time.Sleep(5 * time.Millisecond)

	r := &Runner{}
	require.Error(t, r.Execute(ctx, "test", []Hook{{Command: "echo hello"}}))
}

func TestConfigEmpty(t *testing.T) {
	assert.True(t, Config{}.Empty())
	assert.False(t, Config{AfterRun: []Hook{{Command: "true"}}}.Empty())
}
