package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("tenpai_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand wraps a shell command as a lua function that takes the rest of
// the command line as its one argument and returns the command's output.
func luaCommand(name string, extra ...string) lua.LGFunction {
	return func(L *lua.LState) int {
		sc := getShell(L)
		line := name + " " + L.ToString(1)
		for _, e := range extra {
			line += " " + e
		}
		cmd, err := extractFields(line)
		if err != nil {
			log.Err(err).Msg("error-parsing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := sc.dispatch(cmd)
		if err != nil {
			log.Err(err).Msg("error-executing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		if r == nil {
			L.Push(lua.LString(""))
			return 1
		}
		L.Push(lua.LString(r.message))
		// return number of results pushed to stack.
		return 1
	}
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("tenpai_shell", lsc)
	L.SetGlobal("tenpai_hand", L.NewFunction(luaCommand("hand")))
	L.SetGlobal("tenpai_visible", L.NewFunction(luaCommand("visible")))
	L.SetGlobal("tenpai_shanten", L.NewFunction(luaCommand("shanten")))
	L.SetGlobal("tenpai_useful", L.NewFunction(luaCommand("useful")))
	L.SetGlobal("tenpai_match", L.NewFunction(luaCommand("match")))
	L.SetGlobal("tenpai_discard", L.NewFunction(luaCommand("discard")))
	L.SetGlobal("tenpai_winrate", L.NewFunction(luaCommand("winrate", "-wait", "true")))
	L.SetGlobal("tenpai_set", L.NewFunction(luaCommand("set")))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
