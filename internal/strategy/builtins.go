package strategy

import "math/rand"

func registerBuiltIns() {
	MustRegister("always_cooperate", func(_ *rand.Rand) Strategy { return alwaysCooperate{} })
	MustRegister("always_defect", func(_ *rand.Rand) Strategy { return alwaysDefect{} })
	MustRegister("tit_for_tat", func(_ *rand.Rand) Strategy { return titForTat{} })
	MustRegister("tit_for_2_tat", func(_ *rand.Rand) Strategy { return titForTwoTats{} })
	MustRegister("per_ddc", func(_ *rand.Rand) Strategy { return periodicDDC{} })
	MustRegister("slow_tit_for_tat", newSlowTitForTat)
	MustRegister("gradual", newGradual)
	MustRegister("mem2", newMem2)
	MustRegister("prober", newProber)

	MustRegister("equalizer_b", NewMemoryOne("equalizer_b", MemoryOneParams{
		PCC: 0.90, PCD: 0.70, PDC: 0.20, PDD: 0.10,
	}))
	MustRegister("extortion_e", NewMemoryOne("extortion_e", MemoryOneParams{
		PCC: 0.85, PCD: 3.0 / 40.0, PDC: 0.70, PDD: 0.00,
	}))
	MustRegister("random", NewMemoryOne("random", MemoryOneParams{
		PCC: 0.5, PCD: 0.5, PDC: 0.5, PDD: 0.5,
	}))
}
