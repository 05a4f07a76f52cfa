package kernel

import (
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUFeatures lists the instruction set extensions relevant to backend
// choice.
type CPUFeatures struct {
	AVX2   bool
	AVX512 bool
	BMI2   bool
	ADX    bool
	POPCNT bool
	ASIMD  bool
}

// GetCPUFeatures reports the features of the running CPU.
func GetCPUFeatures() CPUFeatures {
	return CPUFeatures{
		AVX2:   cpu.X86.HasAVX2,
		AVX512: cpu.X86.HasAVX512F,
		BMI2:   cpu.X86.HasBMI2,
		ADX:    cpu.X86.HasADX,
		POPCNT: cpu.X86.HasPOPCNT,
		ASIMD:  cpu.ARM64.HasASIMD,
	}
}

// String returns the detected features as a space-separated list, or
// "none".
func (f CPUFeatures) String() string {
	var names []string
	add := func(ok bool, name string) {
		if ok {
			names = append(names, name)
		}
	}
	add(f.AVX2, "avx2")
	add(f.AVX512, "avx512")
	add(f.BMI2, "bmi2")
	add(f.ADX, "adx")
	add(f.POPCNT, "popcnt")
	add(f.ASIMD, "asimd")
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, " ")
}
