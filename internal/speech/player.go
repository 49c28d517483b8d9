package speech

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Player is an external command that plays an audio file and exits when
// playback ends.
type Player struct {
	Command string
	Args    []string
}

var knownPlayers = []Player{
	{Command: "afplay"},
	{Command: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{Command: "mpg123", Args: []string{"-q"}},
}

// DetectPlayer returns the first known player found on PATH. preferred,
// when set, is a command line such as "mpv --no-video" tried first.
func DetectPlayer(preferred string) (Player, error) {
	if fields := strings.Fields(preferred); len(fields) > 0 {
		p := Player{Command: fields[0], Args: fields[1:]}
		for _, k := range knownPlayers {
			if len(p.Args) == 0 && filepath.Base(p.Command) == k.Command {
				p.Args = k.Args
			}
		}
		path, err := lookPath(p.Command)
		if err != nil {
			return Player{}, &EngineError{Engine: "player", Err: err}
		}
		p.Command = path
		return p, nil
	}
	var tried []string
	for _, k := range knownPlayers {
		path, err := lookPath(k.Command)
		if err != nil {
			tried = append(tried, k.Command)
			continue
		}
		return Player{Command: path, Args: k.Args}, nil
	}
	return Player{}, &EngineError{Engine: "player", Err: fmt.Errorf("no audio player found (tried %s)", strings.Join(tried, ", "))}
}

func (p Player) command(file string) *exec.Cmd {
	args := append(append([]string(nil), p.Args...), file)
	return exec.Command(p.Command, args...)
}
