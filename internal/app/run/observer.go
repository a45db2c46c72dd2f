package run

import (
	"time"

	"github.com/John-Robertt/GGNC/internal/config"
	"github.com/John-Robertt/GGNC/internal/domain"
)

// Observer 用于把“运行进度/阶段/条目结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 处理严格串行，事件也严格按序到达；实现不需要考虑并发。
type Observer interface {
	// OnStart 在 ExecuteWithObserver 开始时调用（应尽量早，保证用户 1 秒内看到输出）。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段结束时调用（load / lookup），用于打印阶段统计与耗时。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnRecordDone 在一条记录处理完成时调用（用于进度条/逐条输出）。
	OnRecordDone(idx, total int, res domain.MatchResult, dur time.Duration)
}
