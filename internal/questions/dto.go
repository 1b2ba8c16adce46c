package questions

type generateRequest struct {
	ResumeID          string         `json:"resumeId"`
	JobRole           string         `json:"jobRole"`
	Company           string         `json:"company"`
	NumberOfQuestions int            `json:"numberOfQuestions"`
	DifficultyMix     *DifficultyMix `json:"difficultyMix"`
}

func (r generateRequest) toRequest(userID string) Request {
	return Request{
		UserID:            userID,
		ResumeID:          r.ResumeID,
		JobRole:           r.JobRole,
		Company:           r.Company,
		NumberOfQuestions: r.NumberOfQuestions,
		DifficultyMix:     r.DifficultyMix,
	}
}

type seedResponse struct {
	QuestionsIndexed int `json:"questionsIndexed"`
}
