package strategy

import "XauSentinel/internal/model"

// DetectZone scans the last lookback hourly bars, oldest first, for a three-bar
// fair value gap. The gap is measured between the bars either side of the
// middle one; the two most recent bars are never the middle bar.
// The first gap found wins.
func DetectZone(bars []model.OHLCV, lookback int) (model.Zone, bool) {
	n := len(bars)
	for off := lookback; off >= 3; off-- {
		mid := n - off
		prev, next := mid-1, mid+1
		if prev < 0 {
			continue
		}
		p, x := bars[prev], bars[next]
		if x.Low > p.High {
			return model.Zone{Type: model.BullishFVG, Time: x.Time, Price: (p.High + x.Low) / 2}, true
		}
		if x.High < p.Low {
			return model.Zone{Type: model.BearishFVG, Time: x.Time, Price: (p.Low + x.High) / 2}, true
		}
	}
	return model.Zone{}, false
}
