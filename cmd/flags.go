package cmd

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/helper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	"mock": cliFlag{name: "mock", shortHand: "m", desc: "mock switch for testing"},
	"job": cliFlag{name: "job", shortHand: "j",
		desc: "Name of the job to run (default: env var " + constants.EnvVarSyncJob + " or " + constants.DefaultJobName + ")"},
	"job-file": cliFlag{name: "job-file", shortHand: "J",
		desc: "Optional YAML or JSON file of job definitions; jobs in the file replace built-in jobs of the same name"},
	"env-file": cliFlag{name: "env-file", shortHand: "e",
		desc: "File of KEY=value lines loaded into the environment before the configuration is resolved.\n" +
			"Variables already set in the environment take priority"},
	"test": cliFlag{name: "test", shortHand: "t",
		desc: "Check ogr2ogr and both database connections, then exit without moving data"},
	"dry-run": cliFlag{name: "dry-run", shortHand: "d",
		desc: "Print the source query and the ogr2ogr commands without connecting to anything"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: debug|info|warn|error (default: env var " + constants.EnvVarLogLevel + " or " + constants.DefaultLogLevel + ")"},
	"output": cliFlag{name: "output", shortHand: "o",
		desc: "Output format: yaml|json"},
}

// addFlag adds a flag to cobra.Command c, based on the type of targetVar (which must be a pointer).
// The name of the flag is looked up in map, cliFlags.
// The default value is read from the environment variable for the flag name, else defaultValue is used.
// Supply a value for desc2 to append to the existing description found in map cliFlags.
func (f *cliFlags) addFlag(c *cobra.Command, targetVar interface{}, name string, defaultValue string, required bool, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue, helper.ReadValueFromEnv)
	desc := sw.desc + desc2
	switch p := targetVar.(type) {
	case *string:
		c.Flags().StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
	case *bool:
		c.Flags().BoolVarP(p, sw.name, sw.shortHand, strings.ToLower(sw.val) == "true", desc)
	case *int:
		defaultInt := 0
		if sw.val != "" {
			var err error
			if defaultInt, err = strconv.Atoi(sw.val); err != nil {
				fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
				os.Exit(1)
			}
		}
		c.Flags().IntVarP(p, sw.name, sw.shortHand, defaultInt, desc)
	default:
		panic("Error: unhandled CLI flag target value type")
	}
	if required {
		_ = c.MarkFlagRequired(sw.name)
	}
}

// getCliFlag returns the registered flag with its default value taken from the environment
// variable for name, or defaultValue when that is not set.
func (f *cliFlags) getCliFlag(name string, defaultValue string, fnGetEnv func(key string, out *string) error) cliFlag {
	s, ok := (*f)[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	if err := fnGetEnv(flagNameToEnvVar(name), &s.val); err != nil || s.val == "" {
		s.val = defaultValue
	}
	return s
}

// flagNameToEnvVar will form a sanitised environment variable name using constants.EnvVarPrefix.
func flagNameToEnvVar(name string) string {
	return constants.EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// flagChanged reports whether the user supplied flag name on the command line.
func flagChanged(f *pflag.FlagSet, name string) bool {
	fl := f.Lookup(name)
	return fl != nil && fl.Changed
}
