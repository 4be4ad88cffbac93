package helper

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadValueFromEnv will read the env var name and populate the supplied val.
// If the env var is not set then return an error.
func ReadValueFromEnv(name string, val *string) error {
	v := os.Getenv(name)
	if v != "" { // if the environment variable was set...
		*val = v // update the callers value
		return nil
	} else { // else there was no environment variable set...
		return fmt.Errorf("value for environment variable %v not found", name)
	}
}

// ReadValueFromEnvWithDefault will read the value of name from the environment into v.
// If it's not set then it will apply the supplied defaultValue and return v.
func ReadValueFromEnvWithDefault(name string, defaultValue string) (v string) {
	_ = ReadValueFromEnv(name, &v)
	if v == "" && defaultValue != "" { // if the environment variable is not set and we have been given a default value...
		v = defaultValue
	}
	return
}

// ReadIntFromEnvWithDefault reads an integer env var.
// Unset or unparsable values fall back to defaultValue; badValue reports a fallback
// caused by a set but invalid variable so callers can warn about it.
func ReadIntFromEnvWithDefault(name string, defaultValue int) (v int, badValue bool) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return defaultValue, false
	}
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return defaultValue, true
	}
	return i, false
}

// EnvSlice converts a map of variables into the KEY=value form used by os/exec.
func EnvSlice(m map[string]string) []string {
	retval := make([]string, 0, len(m))
	for k, v := range m {
		retval = append(retval, fmt.Sprintf("%v=%v", k, v))
	}
	return retval
}
