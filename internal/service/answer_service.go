package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/lehuyba/InterviewAce/internal/repository"
	"github.com/rs/zerolog/log"
)

// AnswerService persists answers keyed by (interview, question). The batch
// path is all-or-nothing; its caller falls back to per-item upserts so one
// bad record cannot block the rest.
type AnswerService interface {
	Get(id uint) (*dto.AnswerResponse, error)
	Upsert(req dto.AnswerUpsertRequest) (*dto.AnswerResponse, error)
	UpdateByID(id uint, req dto.AnswerUpsertRequest) (*dto.AnswerResponse, error)
	BatchUpsert(req dto.AnswerBatchRequest) (*dto.AnswerBatchResponse, error)
	ListByInterview(interviewID uint) ([]dto.AnswerResponse, error)
	// ReloadAudioURL re-resolves a stored answer's audio URL through the
	// static-file fallback and persists the normalized URL.
	ReloadAudioURL(id uint) (*dto.AnswerResponse, error)
}

type answerService struct {
	answerRepo    repository.AnswerRepository
	interviewRepo repository.InterviewRepository
	uploads       UploadService
}

func NewAnswerService(
	answerRepo repository.AnswerRepository,
	interviewRepo repository.InterviewRepository,
	uploads UploadService,
) AnswerService {
	return &answerService{answerRepo: answerRepo, interviewRepo: interviewRepo, uploads: uploads}
}

func (s *answerService) Get(id uint) (*dto.AnswerResponse, error) {
	answer, err := s.answerRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("answer not found with ID %d: %w", id, err)
	}
	return answerDTO(answer)
}

func (s *answerService) Upsert(req dto.AnswerUpsertRequest) (*dto.AnswerResponse, error) {
	if _, err := s.interviewRepo.FindByID(req.InterviewID); err != nil {
		return nil, fmt.Errorf("interview not found with ID %d: %w", req.InterviewID, err)
	}

	answer := answerFromRequest(req)
	if err := s.answerRepo.Upsert(answer); err != nil {
		log.Error().Err(err).Uint("interviewID", req.InterviewID).Uint("questionID", req.QuestionID).Msg("Failed to upsert answer")
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}
	return answerDTO(answer)
}

func (s *answerService) UpdateByID(id uint, req dto.AnswerUpsertRequest) (*dto.AnswerResponse, error) {
	existing, err := s.answerRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("answer not found with ID %d: %w", id, err)
	}

	answer := answerFromRequest(req)
	answer.ID = existing.ID
	answer.CreatedAt = existing.CreatedAt
	if err := s.answerRepo.Update(answer); err != nil {
		return nil, fmt.Errorf("failed to update answer: %w", err)
	}
	return answerDTO(answer)
}

func (s *answerService) BatchUpsert(req dto.AnswerBatchRequest) (*dto.AnswerBatchResponse, error) {
	if _, err := s.interviewRepo.FindByID(req.InterviewID); err != nil {
		return nil, fmt.Errorf("interview not found with ID %d: %w", req.InterviewID, err)
	}

	answers := make([]*model.Answer, 0, len(req.Answers))
	for _, item := range req.Answers {
		item.InterviewID = req.InterviewID
		answers = append(answers, answerFromRequest(item))
	}

	resp := &dto.AnswerBatchResponse{}
	if err := s.answerRepo.BatchUpsert(answers); err != nil {
		log.Warn().Err(err).Uint("interviewID", req.InterviewID).Int("count", len(answers)).
			Msg("Batch answer upsert failed, falling back to per-item submission")
		for _, answer := range answers {
			if itemErr := s.answerRepo.Upsert(answer); itemErr != nil {
				resp.Failed = append(resp.Failed, dto.FinalizeFailure{
					QuestionID: answer.QuestionID,
					Reason:     itemErr.Error(),
				})
				continue
			}
			item, dtoErr := answerDTO(answer)
			if dtoErr != nil {
				return nil, dtoErr
			}
			resp.Persisted = append(resp.Persisted, *item)
		}
		return resp, nil
	}

	for _, answer := range answers {
		item, err := answerDTO(answer)
		if err != nil {
			return nil, err
		}
		resp.Persisted = append(resp.Persisted, *item)
	}
	return resp, nil
}

func (s *answerService) ListByInterview(interviewID uint) ([]dto.AnswerResponse, error) {
	answers, err := s.answerRepo.FindByInterviewID(interviewID)
	if err != nil {
		return nil, fmt.Errorf("error fetching answers for interview %d: %w", interviewID, err)
	}
	out := make([]dto.AnswerResponse, 0, len(answers))
	for i := range answers {
		item, err := answerDTO(&answers[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, nil
}

func (s *answerService) ReloadAudioURL(id uint) (*dto.AnswerResponse, error) {
	answer, err := s.answerRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("answer not found with ID %d: %w", id, err)
	}

	resolved, err := s.uploads.ResolveAudioURL(answer.AudioURL)
	if err != nil {
		return nil, fmt.Errorf("audio for answer %d could not be recovered: %w", id, err)
	}
	if resolved != answer.AudioURL {
		answer.AudioURL = resolved
		if err := s.answerRepo.Update(answer); err != nil {
			return nil, fmt.Errorf("failed to persist recovered audio URL: %w", err)
		}
	}
	return answerDTO(answer)
}

func answerFromRequest(req dto.AnswerUpsertRequest) *model.Answer {
	answer := &model.Answer{
		LocalID:      req.LocalID,
		InterviewID:  req.InterviewID,
		QuestionID:   req.QuestionID,
		AudioURL:     req.AudioURL,
		Transcript:   req.Transcript,
		Code:         req.Code,
		CodeLanguage: req.CodeLanguage,
		Score:        req.Score,
		Feedback:     req.Feedback,
	}
	if req.Criteria != nil {
		answer.Criteria = *req.Criteria
	}
	return answer
}

func answerDTO(answer *model.Answer) (*dto.AnswerResponse, error) {
	var resp dto.AnswerResponse
	if err := copier.Copy(&resp, answer); err != nil {
		return nil, fmt.Errorf("error preparing answer response: %w", err)
	}
	resp.Complete = answer.IsComplete()
	return &resp, nil
}
