package engine

import (
	"github.com/tatianab/sunnytown/internal/achievements"
	"github.com/tatianab/sunnytown/internal/cards"
	"go.uber.org/zap"
)

// endGame plays the ending cutscene. When it finishes the final score is
// recorded and the result handed to the next scene.
func (e *Engine) endGame() {
	e.ended = true

	var scene Cutscene
	var dialogue cards.Dialogue
	if e.won {
		e.audio.PlayWinMusic()
		dialogue = e.deck.Endings.Compose(e.tokens.Map())
		scene = CutsceneGoodWin
		if e.metrics.ScoreLow() {
			scene = CutsceneBadWin
		}
	} else {
		e.audio.PlayLoseMusic()
		dialogue = e.lostDialogue
		scene = CutsceneLose
	}
	e.logger.Info("game ending", zap.Bool("won", e.won), zap.String("cutscene", string(scene)))
	e.display.ShowCutscene(scene, dialogue, e.callback(e.finish))
}

func (e *Engine) finish() {
	e.evaluate()
	score := e.metrics.Score()
	rank, err := e.achieve.RecordScore(e.ctx, score, e.cfg.Player, e.cfg.RunID)
	if err != nil {
		e.logger.Warn("high score not recorded", zap.Error(err))
		rank = achievements.NotHighScore
	}
	result := Result{Won: e.won, Score: score, Rank: rank, Tokens: e.tokens.Map()}
	e.result = &result
	e.logger.Info("game finished", zap.Bool("won", result.Won), zap.Int("score", score), zap.Int("rank", rank))
	e.scenes.Advance(result)
}
