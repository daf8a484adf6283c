package shell

import (
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/tenpai/config"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"shanten": {Options: []string{"-pattern", "-strategy"}},
	"useful":  {Options: []string{"-pattern", "-strategy"}},
	"match":   {Options: []string{"-pattern"}},
	"discard": {Options: []string{"-pattern", "-strategy", "-json"}},
	"batch":   {Options: []string{"-strategy", "-verbose"}},
	"autoplay": {
		Options: []string{"-games", "-threads", "-turns", "-seeds", "-file", "-pattern", "-strategy", "-wait"},
		Args:    []string{"stop", "analyze"},
	},
	"visible": {Args: []string{"clear"}},
	"help":    {Args: helpTopics},
	"set":     {Args: settableKeys},
	"script":  {},
	"hand":    {},
	"version": {},
	"exit":    {},
	"winrate": {
		Options: []string{"-draws", "-iterations", "-threads", "-stop", "-seed", "-wait", "-pattern"},
		Args:    []string{"show", "stop", "wait", "histogram"},
	},
}

var commandNames = func() []string {
	names := make([]string, 0, len(commandMetadata))
	for n := range commandMetadata {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}()

var settableKeys = []string{
	config.ConfigDebug, config.ConfigStrategy, config.ConfigPatterns,
	config.ConfigThreads, config.ConfigDraws, config.ConfigIterations,
	config.ConfigStoppingCondition, config.ConfigCacheMemoryFraction,
}

var (
	stopValues     = []string{"none", "95", "98", "99"}
	boolValues     = []string{"true", "false"}
	strategyValues = []string{"heuristic", "patternmatch", "bruteforce"}
	patternValues  = []string{"standard", "pairs", "standard,pairs"}
)

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "stop":
				completions = stopValues
			case "json", "wait", "verbose":
				completions = boolValues
			case "strategy":
				completions = strategyValues
			case "pattern":
				completions = patternValues
			}
		}
		if cmdName == "set" && len(fields) >= 2 && (endsWithSpace || len(fields) > 2) {
			switch fields[1] {
			case config.ConfigStrategy:
				completions = strategyValues
			case config.ConfigPatterns:
				completions = patternValues
			case config.ConfigStoppingCondition:
				completions = stopValues
			case config.ConfigDebug:
				completions = []string{"on", "off"}
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
