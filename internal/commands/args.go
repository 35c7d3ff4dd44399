package commands

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"
)

// taskID parses the first positional argument as a task ID.
func taskID(c *cli.Command) (int64, error) {
	if c.Args().Len() == 0 {
		return 0, fmt.Errorf("task id is required")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", c.Args().First())
	}
	return id, nil
}
