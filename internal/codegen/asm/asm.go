package asm

import "fmt"

type Program struct {
	Lines []Line
}

type Line struct {
	Comment string
	Op      string
	Arity   int
	Arg1    Arg
	Arg2    Arg
	Arg3    Arg
}

type Arg struct {
	Reg string
	Imm *int64
}

func (a Arg) String() string {
	if a.Reg != "" {
		return a.Reg
	} else if a.Imm != nil {
		return fmt.Sprintf("%d", *a.Imm)
	}
	panic(fmt.Errorf("invalid arg %#v", a))
}

func Imm(value int64) Arg {
	return Arg{Imm: &value}
}

func Reg(reg string) Arg {
	return Arg{Reg: reg}
}

func Op2(op string, arg1, arg2 Arg) Line {
	return Line{Op: op, Arity: 2, Arg1: arg1, Arg2: arg2}
}

func Op3(op string, arg1, arg2, arg3 Arg) Line {
	return Line{Op: op, Arity: 3, Arg1: arg1, Arg2: arg2, Arg3: arg3}
}

func Comment(text string) Line {
	return Line{Comment: text}
}
