package cli

import "dgca-prep-service/internal/domain"

// sampleBanks seeds a small question bank for running without Postgres;
// production deployments load topics from the database instead.
func sampleBanks() map[string]domain.QuestionBank {
	return map[string]domain.QuestionBank{
		"instruments": {
			ID:    "instruments",
			Label: "Instruments",
			Questions: []domain.Question{
				{
					ID:     "inst-001",
					Prompt: "What is the purpose of the pitot tube in an aircraft?",
					Options: []string{
						"To measure static pressure",
						"To measure dynamic pressure for airspeed indication",
						"To measure engine RPM",
						"To measure fuel flow",
					},
					CorrectOptionIndex: 1,
					Explanation:        "The pitot tube measures ram air pressure which, compared with static pressure, provides the airspeed indication.",
					Difficulty:         domain.DifficultyEasy,
				},
				{
					ID:     "inst-002",
					Prompt: "What happens to the altimeter reading when flying from a high pressure to a low pressure area without resetting?",
					Options: []string{
						"Altimeter will read higher than actual altitude",
						"Altimeter will read lower than actual altitude",
						"Altimeter reading remains unchanged",
						"Altimeter will fluctuate",
					},
					CorrectOptionIndex: 0,
					Explanation:        "High to low, look out below: the altimeter over-reads until reset.",
					Difficulty:         domain.DifficultyMedium,
				},
				{
					ID:     "inst-003",
					Prompt: "Which instruments are affected if the static port becomes blocked?",
					Options: []string{
						"Airspeed indicator only",
						"Altimeter only",
						"Airspeed indicator, altimeter and VSI",
					},
					CorrectOptionIndex: 2,
					Explanation:        "All pressure instruments rely on the static source.",
					Difficulty:         domain.DifficultyHard,
				},
			},
		},
		"air-regulations": {
			ID:    "air-regulations",
			Label: "Air Regulations",
			Questions: []domain.Question{
				{
					ID:     "reg-001",
					Prompt: "Two aircraft are converging at approximately the same altitude. Which has the right of way?",
					Options: []string{
						"The faster aircraft",
						"The aircraft that has the other on its right",
						"The larger aircraft",
						"The aircraft at lower altitude",
					},
					CorrectOptionIndex: 1,
					Difficulty:         domain.DifficultyEasy,
				},
				{
					ID:     "reg-002",
					Prompt: "What is the minimum flight visibility for VFR flight below 3000 ft AMSL?",
					Options: []string{
						"1500 m",
						"3000 m",
						"5 km",
						"8 km",
					},
					CorrectOptionIndex: 2,
					Difficulty:         domain.DifficultyMedium,
				},
			},
		},
	}
}
