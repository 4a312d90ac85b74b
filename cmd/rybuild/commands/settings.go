package commands

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Environment variables read when the corresponding flag is not given.
const (
	EngineRootEnv = "RYBUILD_ENGINE_ROOT"
	GeneratorEnv  = "RYBUILD_GENERATOR"
	JobsEnv       = "RYBUILD_JOBS"
)

// legacyFlags maps -Key=Value settings to their long flag names.
var legacyFlags = map[string]string{
	"TargetOS":        "target-os",
	"TargetArch":      "target-arch",
	"BuildConfig":     "build-config",
	"BuildType":       "build-type",
	"OutputDirectory": "output-directory",
	"Distribute":      "distribute",
	"StandaloneName":  "standalone-name",
}

// NormalizeArgs rewrites -Key=Value and -Key settings to --long-flag form.
// Unknown arguments are passed through unchanged.
func NormalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") {
			continue
		}
		key, value, hasValue := strings.Cut(arg[1:], "=")
		flag, ok := legacyFlags[key]
		if !ok {
			continue
		}
		out[i] = "--" + flag
		if hasValue {
			out[i] += "=" + value
		}
	}
	return out
}

func addSettingsFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("target-os", "", "Target operating system: Windows, Linux or OSX (default: host)")
	f.String("target-arch", "", "Target architecture: x86, x64, Arm or Arm64 (default: host)")
	f.String("build-config", string(domain.ConfigDevelopment), "Build configuration: Development or Shipping")
	f.String("build-type", string(domain.BuildModular), "Build type: Modular or Standalone")
	f.String("output-directory", "", "Directory linked binaries are written to")
	f.Bool("distribute", false, "Build a redistributable project")
	f.String("standalone-name", domain.DefaultStandaloneName, "Name of the standalone executable")
	f.String("engine-root", "", "Engine installation providing engine modules and externs (env "+EngineRootEnv+")")
	f.String("generator", "", "Reflection generator program (env "+GeneratorEnv+")")
	f.IntP("jobs", "j", 0, "Worker count per pool, 0 for one per CPU (env "+JobsEnv+")")
	f.Bool("timings", false, "Print the duration of every phase and module")
}

// settingsFromFlags assembles the build settings from flags, falling back to the environment.
func settingsFromFlags(cmd *cobra.Command) (*domain.BuildSettings, error) {
	f := cmd.Flags()
	s := domain.DefaultSettings()

	if v, _ := f.GetString("target-os"); v != "" {
		targetOS, err := domain.ParseOS(v)
		if err != nil {
			return nil, err
		}
		s.Target.OS = targetOS
	}
	if v, _ := f.GetString("target-arch"); v != "" {
		arch, err := domain.ParseArch(v)
		if err != nil {
			return nil, err
		}
		s.Target.Arch = arch
	}

	v, _ := f.GetString("build-config")
	config, err := domain.ParseConfig(v)
	if err != nil {
		return nil, err
	}
	s.Config = config

	v, _ = f.GetString("build-type")
	buildType, err := domain.ParseBuildType(v)
	if err != nil {
		return nil, err
	}
	s.Type = buildType

	s.OutputDirectory, _ = f.GetString("output-directory")
	s.Distribute, _ = f.GetBool("distribute")
	s.StandaloneName, _ = f.GetString("standalone-name")
	s.EngineRoot = stringOrEnv(cmd, "engine-root", EngineRootEnv)
	s.Generator = stringOrEnv(cmd, "generator", GeneratorEnv)

	s.Jobs, _ = f.GetInt("jobs")
	if !f.Changed("jobs") {
		if v := os.Getenv(JobsEnv); v != "" {
			jobs, err := strconv.Atoi(v)
			if err != nil || jobs < 0 {
				return nil, zerr.With(zerr.With(domain.ErrInvalidSetting, "setting", JobsEnv), "value", v)
			}
			s.Jobs = jobs
		}
	}
	return s, nil
}

func stringOrEnv(cmd *cobra.Command, flag, env string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return os.Getenv(env)
}
