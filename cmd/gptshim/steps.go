package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/gpt-shim/gpt"
	"github.com/wippyai/gpt-shim/runtime"
)

// step is one routine call of a -run script.
type step struct {
	op   string
	name string
	a, b int32
}

// parseSteps parses a comma separated list of routine calls:
//
//	init | reset | stamp | pr:<id> | setoption:<option>:<flag> | start:<name> | stop:<name>
//
// Options may be given by number or by name (wall, usrsys, pcl_start...).
func parseSteps(script string) ([]step, error) {
	var steps []step
	for _, raw := range strings.Split(script, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.SplitN(raw, ":", 3)
		s := step{op: strings.ToLower(parts[0])}

		switch s.op {
		case "init", "initialize", "reset", "stamp":
			if len(parts) != 1 {
				return nil, fmt.Errorf("step %q takes no argument", raw)
			}
		case "pr":
			if len(parts) != 2 {
				return nil, fmt.Errorf("step %q: want pr:<id>", raw)
			}
			n, err := strconv.ParseInt(parts[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", raw, err)
			}
			s.a = int32(n)
		case "setoption":
			if len(parts) != 3 {
				return nil, fmt.Errorf("step %q: want setoption:<option>:<flag>", raw)
			}
			opt, err := parseOption(parts[1])
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", raw, err)
			}
			flag, err := strconv.ParseInt(parts[2], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", raw, err)
			}
			s.a, s.b = int32(opt), int32(flag)
		case "start", "stop":
			if len(parts) < 2 {
				return nil, fmt.Errorf("step %q: want %s:<name>", raw, s.op)
			}
			s.name = strings.Join(parts[1:], ":")
		default:
			return nil, fmt.Errorf("unknown step %q", raw)
		}
		if s.op == "initialize" {
			s.op = "init"
		}
		steps = append(steps, s)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("empty script")
	}
	return steps, nil
}

func parseOption(v string) (gpt.OptionName, error) {
	if n, err := strconv.ParseInt(v, 10, 32); err == nil {
		return gpt.OptionName(n), nil
	}
	for o := gpt.Usrsys; o <= gpt.PCLEnd; o++ {
		if strings.EqualFold(o.String(), v) {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown option %q", v)
}

func (s step) String() string {
	switch s.op {
	case "pr":
		return fmt.Sprintf("pr(%d)", s.a)
	case "setoption":
		return fmt.Sprintf("setoption(%s, %d)", gpt.OptionName(s.a), s.b)
	case "start", "stop":
		return fmt.Sprintf("%s(%q)", s.op, s.name)
	}
	return s.op + "()"
}

// exec performs the step and formats its outcome.
func (s step) exec(ctx context.Context, c *runtime.Caller) (string, error) {
	var (
		status int32
		err    error
	)
	switch s.op {
	case "init":
		status, err = c.Initialize(ctx)
	case "reset":
		return "ok", c.Reset(ctx)
	case "pr":
		status, err = c.Pr(ctx, s.a)
	case "setoption":
		status, err = c.SetOption(ctx, gpt.OptionName(s.a), gpt.Boolean(s.b))
	case "start":
		status, err = c.Start(ctx, s.name)
	case "stop":
		status, err = c.Stop(ctx, s.name)
	case "stamp":
		var wall, usr, sys float64
		wall, usr, sys, status, err = c.Stamp(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("status=%d wall=%.6f usr=%.6f sys=%.6f", status, wall, usr, sys), nil
	default:
		return "", fmt.Errorf("unknown step %q", s.op)
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("status=%d", status), nil
}
