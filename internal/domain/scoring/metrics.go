package scoring

import "github.com/abdidvp/storediag/internal/domain"

// NeutralScore is reported for an index none of whose inputs are present.
// Rules read it as "very low", so stores with no data still get diagnosed.
const NeutralScore = 0.0

var (
	cviMeasures = []measure{
		{key: "sales_growth_rate", sections: []string{domain.SectionCommercial}, min: -20, max: 20},
		{key: "survival_rate", sections: []string{domain.SectionCommercial}, min: 0, max: 100},
		{key: "avg_monthly_sales", sections: []string{domain.SectionCommercial}, min: 0, max: 100_000_000},
		{key: "closure_rate", sections: []string{domain.SectionCommercial}, min: 0, max: 30, inverted: true},
	}
	asiMeasures = []measure{
		{key: "transit_distance_m", sections: []string{domain.SectionAccessibility}, min: 0, max: 1500, inverted: true},
		{key: "bus_stop_count", sections: []string{domain.SectionAccessibility}, min: 0, max: 10},
		{key: "parking_spaces", sections: []string{domain.SectionAccessibility}, min: 0, max: 50},
		{key: "walk_score", sections: []string{domain.SectionAccessibility}, min: 0, max: 100},
	}
	sciMeasures = []measure{
		{key: "competitor_count", sections: []string{domain.SectionCommercial, domain.SectionIndustry}, min: 0, max: 30, inverted: true},
		{key: "franchise_ratio", sections: []string{domain.SectionCommercial, domain.SectionIndustry}, min: 0, max: 100, inverted: true},
		{key: "market_share", sections: []string{domain.SectionCommercial, domain.SectionIndustry}, min: 0, max: 50},
	}
	gmiMeasures = []measure{
		{key: "floating_population", sections: []string{domain.SectionMobility, domain.SectionIndustry}, min: 0, max: 100_000},
		{key: "resident_population", sections: []string{domain.SectionMobility, domain.SectionIndustry}, min: 0, max: 50_000},
		{key: "industry_growth_rate", sections: []string{domain.SectionMobility, domain.SectionIndustry}, min: -10, max: 10},
		{key: "store_count_change", sections: []string{domain.SectionMobility, domain.SectionIndustry}, min: -20, max: 20},
	}
)

// CalculateCVI scores commercial viability from the commercial section.
func CalculateCVI(r *domain.Report) float64 { return average(r, cviMeasures) }

// CalculateASI scores accessibility from the accessibility section.
func CalculateASI(r *domain.Report) float64 { return average(r, asiMeasures) }

// CalculateSCI scores competitiveness from the commercial and industry sections.
func CalculateSCI(r *domain.Report) float64 { return average(r, sciMeasures) }

// CalculateGMI scores growth and market from the mobility and industry sections.
func CalculateGMI(r *domain.Report) float64 { return average(r, gmiMeasures) }

// CalculateAll computes every index. The result always holds all four keys.
func CalculateAll(r *domain.Report) domain.Indices {
	return domain.Indices{
		domain.IndexCVI: CalculateCVI(r),
		domain.IndexASI: CalculateASI(r),
		domain.IndexSCI: CalculateSCI(r),
		domain.IndexGMI: CalculateGMI(r),
	}
}

// Inputs lists the report keys each index reads, for documentation surfaces.
func Inputs() map[string][]string {
	out := make(map[string][]string, 4)
	for name, ms := range map[string][]measure{
		domain.IndexCVI: cviMeasures,
		domain.IndexASI: asiMeasures,
		domain.IndexSCI: sciMeasures,
		domain.IndexGMI: gmiMeasures,
	} {
		keys := make([]string, len(ms))
		for i, m := range ms {
			keys[i] = m.key
		}
		out[name] = keys
	}
	return out
}
