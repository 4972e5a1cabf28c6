package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/KunlinY/darts/internal/cli"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, level, formatter := logrus.StandardLogger().Out, logrus.GetLevel(), logrus.StandardLogger().Formatter
	t.Cleanup(func() {
		logrus.SetOutput(out)
		logrus.SetLevel(level)
		logrus.SetFormatter(formatter)
	})

	rootCmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(cli.InjectRootAlias(rootCmd, append([]string{"darts-search"}, args...), "run")[1:])
	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestRunScenario(t *testing.T) {
	out, err := run(t, "--name=m1", "--dataset=CIFAR10", "--world_size=2", "--rank=0",
		"--batch_size=64", "--w_lr=0.025")
	require.NoError(t, err)

	require.Contains(t, out, "\nBATCH_SIZE=128\n")
	require.Contains(t, out, "\nW_LR=0.05\n")
	require.Contains(t, out, "\nPATH=searchs_fl_2_0_False/m1\n")
	require.Contains(t, out, "\nPLOT_PATH=searchs_fl_2_0_False/m1/plots\n")
}

func TestRunMissingName(t *testing.T) {
	out, err := run(t, "run", "--dataset=CIFAR10")
	require.ErrorContains(t, err, "--name is required")
	require.NotContains(t, out, "Parameters:")
}

func TestRunEnvironmentAndConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "search.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("name: m2\ndataset: MNIST\nworld_size: 3\n"), 0o600))
	t.Setenv("DARTS_RANK", "1")
	t.Setenv("DARTS_NOISE", "true")

	out, err := run(t, "--config_file", configFile, "--format=markdown")
	require.NoError(t, err)
	require.Contains(t, out, "|path|searchs_fl_3_1_True/m2|  \n")
	require.Contains(t, out, "|batch_size|192|  \n")
}

func TestRunAllGPUs(t *testing.T) {
	original := countDevices
	t.Cleanup(func() { countDevices = original })
	countDevices = func() (int, error) { return 2, nil }

	out, err := run(t, "--name=m1", "--dataset=CIFAR10", "--rank=0", "--gpus=all", "--format=json")
	require.NoError(t, err)
	require.Contains(t, out, `"gpus":[0,1]`)
	require.Contains(t, out, `"rank":0`)
}

func TestRunMalformedGPUs(t *testing.T) {
	_, err := run(t, "--name=m1", "--dataset=CIFAR10", "--gpus=x")
	require.ErrorContains(t, err, `invalid gpu id "x"`)
}

func TestRunSpacedBooleanValue(t *testing.T) {
	out, err := run(t, "--name=m1", "--dataset=CIFAR10", "--noise", "False")
	require.ErrorContains(t, err, `unexpected argument "False"`)
	require.ErrorContains(t, err, "--noise=false")
	require.NotContains(t, out, "Parameters:")

	out, err = run(t, "--name=m1", "--dataset=CIFAR10", "--noise=False")
	require.NoError(t, err)
	require.Contains(t, out, "\nNOISE=False\n")
}
