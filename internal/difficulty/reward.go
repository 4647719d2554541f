package difficulty

import "github.com/samdwyer/problemcrawl/internal/entity"

// AssignRewards binds a random modifier to every problem. The target tag is
// the first of the problem's tags already tracked in stats, else its first
// tag, else the default tag.
func (g *Generator) AssignRewards(problems []entity.Problem, stats entity.TagStats) {
	for i := range problems {
		t := entity.ModifierTypes[g.sampler.Intn(len(entity.ModifierTypes))]
		tag := RewardTag(problems[i], stats)
		problems[i].Reward = &entity.Modifier{
			Type:        t,
			Tag:         tag,
			Description: entity.DescribeModifier(t, tag),
		}
	}
}

// RewardTag picks the tag an artifact reward for p should target.
func RewardTag(p entity.Problem, stats entity.TagStats) string {
	for _, tag := range p.Tags {
		if _, ok := stats[tag]; ok {
			return tag
		}
	}
	if len(p.Tags) > 0 {
		return p.Tags[0]
	}
	return entity.DefaultModifierTag
}
