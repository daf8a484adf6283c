package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tenpai/config"
	"github.com/domino14/tenpai/montecarlo"
	"github.com/domino14/tenpai/tilemapping"
)

var (
	errNoData            = errors.New("no data in line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoHand            = errors.New("no hand; set one with hand <tiles>")
	errSimRunning        = errors.New("a win-rate simulation is running; stop it first")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type ShellController struct {
	l          *readline.Instance
	config     *config.Config
	execPath   string
	gitVersion string

	// interactive is set by Loop. Outside it, simulations run in the
	// foreground.
	interactive bool

	hand    tilemapping.TileSet
	visible tilemapping.TileSet

	estimator *montecarlo.Estimator
	simCancel context.CancelFunc
	simDone   chan error

	autoplayCancel context.CancelFunc
	autoplayDone   <-chan struct{}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := &ShellController{
		config:     cfg,
		execPath:   execPath,
		gitVersion: gitVersion,
		estimator:  &montecarlo.Estimator{},
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mtenpai>\033[0m ",
		HistoryFile:     "/tmp/tenpai_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    &ShellCompleter{sc: sc},

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	w := io.Writer(os.Stdout)
	if sc.l != nil {
		w = sc.l.Stderr()
	}
	showMessage(msg, w)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into a command, its arguments and its
// -key value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[i][1:]] = fields[i+1]
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "hand":
		return sc.setHand(cmd)
	case "visible":
		return sc.setVisible(cmd)
	case "shanten":
		return sc.shanten(cmd)
	case "useful":
		return sc.useful(cmd)
	case "match":
		return sc.match(cmd)
	case "discard":
		return sc.discard(cmd)
	case "winrate":
		return sc.winrate(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "batch":
		return sc.batch(cmd)
	case "script":
		return sc.script(cmd)
	case "set":
		return sc.set(cmd)
	case "help":
		return sc.help(cmd)
	case "version":
		return msg(sc.gitVersion), nil
	}
	return nil, fmt.Errorf("command %q not recognized; try help", cmd.cmd)
}

// Execute runs a single line. It returns true if the shell should exit.
func (sc *ShellController) Execute(sig chan os.Signal, line string) bool {
	line = strings.TrimSpace(line)
	cmd, err := extractFields(line)
	if err == errNoData {
		return false
	}
	if err != nil {
		sc.showError(err)
		return false
	}
	if cmd.cmd == "exit" {
		sig <- syscall.SIGINT
		return true
	}
	resp, err := sc.dispatch(cmd)
	if err != nil {
		sc.showError(err)
		return false
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return false
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	sc.interactive = true

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		if sc.Execute(sig, line) {
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops a running simulation and any self-play games.
func (sc *ShellController) Cleanup() {
	if sc.autoplayCancel != nil {
		sc.autoplayCancel()
		<-sc.autoplayDone
		sc.autoplayCancel = nil
	}
	if sc.simCancel != nil {
		sc.simCancel()
		<-sc.simDone
		sc.simCancel = nil
	}
}

// ctx returns a context carrying the global logger, for the packages that
// log through zerolog.Ctx.
func (sc *ShellController) ctx() context.Context {
	return log.Logger.WithContext(context.Background())
}
