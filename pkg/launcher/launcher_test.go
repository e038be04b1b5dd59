package launcher_test

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qwinci/hzlauncher/pkg/errors"
	"github.com/Qwinci/hzlauncher/pkg/launcher"
	"github.com/Qwinci/hzlauncher/pkg/rules"
	"github.com/Qwinci/hzlauncher/pkg/types"
)

func testValues() launcher.Values {
	return launcher.Values{
		PlayerName:       "Steve",
		VersionName:      "1.20.1",
		GameDirectory:    "/abs/data/instance",
		AssetsRoot:       "/abs/data/assets",
		AssetsIndexName:  "5",
		UUID:             "uuid",
		AccessToken:      "token",
		UserType:         "mojang",
		VersionType:      "release",
		NativesDirectory: "/abs/data/natives",
		LauncherName:     "HZLauncher",
		LauncherVersion:  "1.0",
		Classpath:        "data/libraries/a.jar:/abs/data/clients/1.20.1.jar",
	}
}

func TestTemplater_Render(t *testing.T) {
	tmpl := launcher.NewTemplater(testValues())

	tests := []struct {
		in   string
		want string
	}{
		{"${auth_player_name}", "Steve"},
		{"--version", "--version"},
		{"-Djava.library.path=${natives_directory}", "-Djava.library.path=/abs/data/natives"},
		{"-Dminecraft.launcher.brand=${launcher_name}-${launcher_version}", "-Dminecraft.launcher.brand=HZLauncher-1.0"},
		{"${classpath}", "data/libraries/a.jar:/abs/data/clients/1.20.1.jar"},
		{"${resolution_width}", ""},
		{"${clientid}", ""},
		{"--demo=${unknown}", "--demo=${unknown}"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, tmpl.Render(tt.in))
		})
	}
}

func TestTemplater_SinglePass(t *testing.T) {
	v := testValues()
	v.PlayerName = "${auth_access_token}"

	assert.Equal(t, "name=${auth_access_token}", launcher.NewTemplater(v).Render("name=${auth_player_name}"))
}

func TestBuildArguments(t *testing.T) {
	eval := rules.NewEvaluator(rules.Host{OS: "linux", Arch: "x86_64", Unix: true})
	tmpl := launcher.NewTemplater(testValues())

	jvm := []types.Argument{
		{Rules: []types.Rule{{Action: types.Allow, OS: &types.OSRule{Name: "osx"}}}, Values: []string{"-XstartOnFirstThread"}},
		{Values: []string{"-cp", "${classpath}"}},
	}
	game := []types.Argument{
		{Values: []string{"--username"}},
		{Values: []string{"${auth_player_name}"}},
		{Rules: []types.Rule{{Action: types.Allow, Features: &types.FeatureRule{Flags: map[string]bool{"has_custom_resolution": true}}}},
			Values: []string{"--width", "${resolution_width}"}},
		{Values: []string{"--quickPlayPath", "${quickPlayPath}"}},
	}

	args, err := launcher.BuildArguments(eval, tmpl, jvm, "net.minecraft.client.main.Main", game)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-cp", "data/libraries/a.jar:/abs/data/clients/1.20.1.jar",
		"net.minecraft.client.main.Main",
		"--username", "Steve",
		"--quickPlayPath", "",
	}, args)
}

func TestBuildArguments_BadRule(t *testing.T) {
	eval := rules.NewEvaluator(rules.Host{OS: "linux"})
	_, err := launcher.BuildArguments(eval, launcher.NewTemplater(testValues()),
		[]types.Argument{{Rules: []types.Rule{{Action: types.Allow}}, Values: []string{"-x"}}}, "Main", nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
}

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	var stdout bytes.Buffer
	r := &launcher.ExecRunner{Stdout: &stdout}

	code, err := r.Run(context.Background(), "sh", []string{"-c", "echo hi; exit 3"})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, "hi\n", stdout.String())

	_, err = r.Run(context.Background(), "definitely-not-a-real-binary-hz", nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLaunch))
}
