package config

import (
	"fmt"
	"os"
)

// StarterConfig is written by `alchemist init`
const StarterConfig = `# Tasks run with "alchemist run <name>".

[tasks.fmt]
command = "echo"
args = ["add your format command here"]

[tasks.lint]
shell_script = "echo 'add your lint command here'"

[tasks.test]
command = "echo"
args = ["add your test command here"]
env = { CI = "true" }

# Groups refer to other tasks by name
[tasks.check]
parallel_tasks = ["fmt", "lint"]

[tasks.ci]
serial_tasks = ["check", "test"]

# Hidden tasks can be run but are left out of "alchemist list"
[tasks.clean]
shell_script = "echo 'add your clean command here'"
hide = true
`

// WriteStarter writes StarterConfig to path. An existing file is only
// replaced when overwrite is set.
func WriteStarter(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists: %w", path, os.ErrExist)
		}
	}

	if err := os.WriteFile(path, []byte(StarterConfig), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	return nil
}
