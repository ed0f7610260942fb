package prediction

import "github.com/osse101/ssbwatch/internal/domain"

// Decide scores a wager from one observation of both sides. The chosen side
// is checked first: if it is offline the wager is WON whatever the opponent
// is doing, so a simultaneous sign-off counts for the voter.
func Decide(chosen, opponent domain.ChannelStatus) domain.WagerState {
	switch {
	case !chosen.IsLive:
		return domain.WagerWon
	case !opponent.IsLive:
		return domain.WagerLost
	default:
		return domain.WagerPending
	}
}
