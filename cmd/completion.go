package cmd

import (
	"errors"
	"fmt"

	"github.com/nibzard/tasksort/internal/config"
)

const bashCompletion = `# tasksort bash completion
_tasksort() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "$prev" in
        -method|--method)
            COMPREPLY=( $(compgen -W "$(tasksort presets 2>/dev/null | awk 'NR>1 {print $1}')" -f -- "$cur") )
            return ;;
        -records|--records|-o|-output|--output)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return ;;
    esac
    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=( $(compgen -W "%[1]s" -- "$cur") )
        return
    fi
    COMPREPLY=( $(compgen -f -- "$cur") )
}
complete -F _tasksort tasksort
`

const zshCompletion = `#compdef tasksort
# tasksort zsh completion
_tasksort() {
    local -a commands
    commands=(%[1]s)
    if (( CURRENT == 2 )); then
        _describe 'command' commands
    else
        _files
    fi
}
_tasksort "$@"
`

const fishCompletion = `# tasksort fish completion
complete -c tasksort -f -n '__fish_use_subcommand' -a '%[1]s'
complete -c tasksort -l method -d 'Preset name or method file' -a '(tasksort presets 2>/dev/null | awk "NR>1 {print \$1}")'
complete -c tasksort -l records -r -d 'Records file'
complete -c tasksort -s o -l output -r -d 'Output file'
`

const powershellCompletion = `# tasksort PowerShell completion
Register-ArgumentCompleter -Native -CommandName tasksort -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)
    '%[1]s'.Split(' ') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`

const subcommands = "sort validate presets schema config init completion version help"

// completionCommand prints a shell completion script.
func completionCommand(_ *config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: tasksort completion <bash|zsh|fish|powershell>")
	}
	var script string
	switch args[0] {
	case "bash":
		script = bashCompletion
	case "zsh":
		script = zshCompletion
	case "fish":
		script = fishCompletion
	case "powershell", "pwsh":
		script = powershellCompletion
	default:
		return fmt.Errorf("unsupported shell %q", args[0])
	}
	_, err := fmt.Fprintf(stdout, script, subcommands)
	return err
}
