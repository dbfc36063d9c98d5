package sim

import "github.com/MJE43/balatro-seed-search/internal/domain"

// TagDraws holds one ante's two tag draws: the small-blind tag and
// the big-blind tag, each independently sampled ("two
// draws per ante").
type TagDraws struct {
	SmallBlind [8]domain.Tag
	BigBlind   [8]domain.Tag
}

func AnteTagDraw(ctx *Context, ante int) TagDraws {
	smallU := ctx.drawVec(TagKey(ante, 0))
	bigU := ctx.drawVec(TagKey(ante, 1))
	return TagDraws{
		SmallBlind: domain.SampleVec8(domain.TagPool(), [8]float64(smallU)),
		BigBlind:   domain.SampleVec8(domain.TagPool(), [8]float64(bigU)),
	}
}
