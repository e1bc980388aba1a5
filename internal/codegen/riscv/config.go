package riscv

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInvalidConfig = errors.New("invalid code generation config")

type Config struct {
	// Registers available to the allocator, in the order they are handed out.
	Registers      []string
	ReturnRegister string
	// Comments makes the generator precede each lowered op with a comment.
	Comments bool
}

func DefaultConfig() Config {
	return Config{
		Registers:      []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6"},
		ReturnRegister: "a0",
	}
}

// ParseRegisters splits a comma-separated register list, e.g. "t0,t1,t2".
func ParseRegisters(list string) []string {
	var result []string
	for _, reg := range strings.Split(list, ",") {
		if reg = strings.TrimSpace(reg); reg != "" {
			result = append(result, reg)
		}
	}
	return result
}

func (c Config) Validate() error {
	if len(c.Registers) == 0 {
		return fmt.Errorf("%w: empty register pool", ErrInvalidConfig)
	}
	if c.ReturnRegister == "" {
		return fmt.Errorf("%w: no return register", ErrInvalidConfig)
	}
	for i, reg := range c.Registers {
		if reg == "" {
			return fmt.Errorf("%w: empty register name at position %d", ErrInvalidConfig, i)
		}
		if slices.Contains(c.Registers[:i], reg) {
			return fmt.Errorf("%w: register %s listed twice", ErrInvalidConfig, reg)
		}
	}
	if slices.Contains(c.Registers, c.ReturnRegister) {
		return fmt.Errorf("%w: return register %s is part of the pool", ErrInvalidConfig, c.ReturnRegister)
	}
	return nil
}
