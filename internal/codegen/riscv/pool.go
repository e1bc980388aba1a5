package riscv

// registerPool hands out registers in declaration order. A register is either
// free or owned by exactly one name.
type registerPool struct {
	registers []string
	owners    map[string]string
}

func newRegisterPool(registers []string) *registerPool {
	return &registerPool{
		registers: registers,
		owners:    make(map[string]string),
	}
}

// take returns the first free register and marks it as owned.
func (p *registerPool) take(owner string) (string, bool) {
	for _, reg := range p.registers {
		if _, used := p.owners[reg]; !used {
			p.owners[reg] = owner
			return reg, true
		}
	}
	return "", false
}

func (p *registerPool) release(reg string) {
	delete(p.owners, reg)
}

func (p *registerPool) free() []string {
	var result []string
	for _, reg := range p.registers {
		if _, used := p.owners[reg]; !used {
			result = append(result, reg)
		}
	}
	return result
}
