package service

import "quetest-service/internal/models"

// Score computes the summary for a completed attempt. Each question
// contributes its own addScore when answered correctly and loses its own
// subScore otherwise; totalPossible is the sum of all addScores.
//
// legacy reproduces the historical behavior where the last question's
// addScore/subScore applied to the whole attempt:
//
//	finalScore    = correct*addScore_last - incorrect*subScore_last
//	totalPossible = total*addScore_last
//
// Only enable it when results must line up with historical data.
func Score(answers []models.AnsweredQuestion, legacy bool) models.ScoreSummary {
	if legacy {
		return scoreLegacy(answers)
	}

	summary := models.ScoreSummary{Total: len(answers)}
	for _, a := range answers {
		if a.UserAnswer == a.CorrectAnswer {
			summary.Correct++
			summary.FinalScore += a.AddScore
		} else {
			summary.FinalScore -= a.SubScore
		}
		summary.TotalPossible += a.AddScore
	}
	summary.Incorrect = summary.Total - summary.Correct
	return summary
}

func scoreLegacy(answers []models.AnsweredQuestion) models.ScoreSummary {
	summary := models.ScoreSummary{Total: len(answers)}
	var addScore, subScore int
	for _, a := range answers {
		if a.UserAnswer == a.CorrectAnswer {
			summary.Correct++
		}
		addScore = a.AddScore
		subScore = a.SubScore
	}
	summary.Incorrect = summary.Total - summary.Correct
	summary.FinalScore = summary.Correct*addScore - summary.Incorrect*subScore
	summary.TotalPossible = summary.Total * addScore
	return summary
}
