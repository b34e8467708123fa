package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

const (
	environmentVariablePort       = "PORT"
	environmentVariableWordsFile  = "WORDS_FILE"
	environmentVariableSessionKey = "SESSION_KEY"
	environmentVariableDebugGame  = "DEBUG_MESSAGES"
)

const defaultPort = 8000

// mainFlags are the configuration options which can be easily configured at run startup for different environments.
type mainFlags struct {
	port       int
	wordsFile  string
	sessionKey string
	debugGame  bool
}

// usage prints how to run the server to the flagset's output.
func usage(fs *flag.FlagSet) {
	envVars := []string{
		environmentVariablePort,
		environmentVariableWordsFile,
		environmentVariableSessionKey,
		environmentVariableDebugGame,
	}
	fmt.Fprintf(fs.Output(), "Runs the server\n")
	fmt.Fprintf(fs.Output(), "Reads environment variables when possible: [%s]\n", strings.Join(envVars, ","))
	fmt.Fprintf(fs.Output(), "Usage of %s:\n", fs.Name())
	fs.PrintDefaults()
}

// newFlagSet creates a flagSet that populates the specified mainFlags.
func (m *mainFlags) newFlagSet(osLookupEnvFunc func(string) (string, bool)) *flag.FlagSet {
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	fs.Usage = func() {
		usage(fs) // [lazy evaluation]
	}
	envValue := func(key string) string {
		if envValue, ok := osLookupEnvFunc(key); ok {
			return envValue
		}
		return ""
	}
	envValueInt := func(key string, defaultValue int) int {
		v1 := envValue(key)
		v2, err := strconv.Atoi(v1)
		if err != nil {
			return defaultValue
		}
		return v2
	}
	envPresent := func(key string) bool {
		_, ok := osLookupEnvFunc(key)
		return ok
	}
	fs.IntVar(&m.port, "port", envValueInt(environmentVariablePort, defaultPort), "The TCP port to run the server on.")
	fs.StringVar(&m.wordsFile, "words-file", envValue(environmentVariableWordsFile), "The list of valid words that can be claimed.  The embedded list is used when empty.")
	fs.StringVar(&m.sessionKey, "session-key", envValue(environmentVariableSessionKey), "The key used to sign session tokens.  A random key is generated when empty, invalidating sessions on restart.")
	fs.BoolVar(&m.debugGame, "debug-game", envPresent(environmentVariableDebugGame), "Logs message types in the console when messages are passed between components.")
	return fs
}

// newMainFlags creates a new, populated mainFlags structure.
// Fields are populated from command line arguments.
// If fields are not specified on the command line, environment variable values are used before defaulting to other defaults.
func newMainFlags(osArgs []string, osLookupEnvFunc func(string) (string, bool)) mainFlags {
	if len(osArgs) == 0 {
		osArgs = []string{""}
	}
	programArgs := osArgs[1:]
	var m mainFlags
	fs := m.newFlagSet(osLookupEnvFunc)
	fs.Parse(programArgs)
	return m
}
