package organizer

import (
	"context"
	"time"
)

// Drive 按固定间隔反复调用 Step，直到得到终止结果。
// ctx 结束时请求取消，随后的 Step 返回取消结果。
func Drive(ctx context.Context, o *Organizer, st State, delay time.Duration, onOutcome func(Outcome)) (State, Outcome) {
	for {
		var out Outcome
		st, out = o.Step(st)
		if onOutcome != nil {
			onOutcome(out)
		}
		if out.Terminal() {
			return st, out
		}

		if delay <= 0 {
			if ctx.Err() != nil {
				o.Cancel(st)
			}
			continue
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			o.Cancel(st)
		case <-timer.C:
		}
	}
}
