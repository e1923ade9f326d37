package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ayushmansingh2512/AI-intervewer/internal/models"
	"github.com/ayushmansingh2512/AI-intervewer/internal/repository"
	"github.com/ayushmansingh2512/AI-intervewer/internal/services"
)

const evaluationQueue = "queue:answer-evaluation"

// Job is the payload pushed onto the evaluation queue when a candidate
// submits their answers.
type Job struct {
	InterviewID string `json:"interview_id"`
	RetryCount  int    `json:"retry_count"`
}

// Enqueue schedules an interview for answer evaluation.
func Enqueue(ctx context.Context, redisClient *redis.Client, interviewID string) error {
	jobBytes, err := json.Marshal(Job{InterviewID: interviewID})
	if err != nil {
		return err
	}
	return redisClient.LPush(ctx, evaluationQueue, string(jobBytes)).Err()
}

type Pool struct {
	redis         *redis.Client
	gemini        *services.GeminiService
	interviewRepo *repository.InterviewRepo
	workerCount   int
	stopChan      chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	gemini *services.GeminiService,
	interviewRepo *repository.InterviewRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:         redisClient,
		gemini:        gemini,
		interviewRepo: interviewRepo,
		workerCount:   workerCount,
		stopChan:      make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, evaluationQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.InterviewID)
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: evaluating answers for interview %s", id, job.InterviewID)

		if err := p.evaluate(ctx, &job); err != nil {
			p.handleFailure(ctx, &job, err)
		} else {
			log.Printf("Worker %d: evaluation for interview %s completed", id, job.InterviewID)
		}

		// Release lock
		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) evaluate(ctx context.Context, job *Job) error {
	interview, err := p.interviewRepo.GetByInterviewID(ctx, job.InterviewID)
	if err != nil {
		return fmt.Errorf("failed to get interview: %w", err)
	}

	answerSet, err := p.interviewRepo.GetAnswers(ctx, job.InterviewID)
	if err != nil {
		return fmt.Errorf("failed to get answers: %w", err)
	}

	if len(answerSet.Answers) != len(interview.Questions) {
		return fmt.Errorf("answer count %d does not match question count %d",
			len(answerSet.Answers), len(interview.Questions))
	}

	evaluations := make([]models.Evaluation, 0, len(interview.Questions))
	for i, question := range interview.Questions {
		eval, err := p.gemini.EvaluateAnswer(ctx, question, answerSet.Answers[i])
		if err != nil {
			return fmt.Errorf("failed to evaluate answer %d: %w", i+1, err)
		}
		evaluations = append(evaluations, eval)
	}

	evalJSON, err := json.Marshal(evaluations)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluations: %w", err)
	}

	if err := p.interviewRepo.SaveEvaluation(ctx, job.InterviewID, evalJSON); err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}

	return nil
}

func (p *Pool) handleFailure(ctx context.Context, job *Job, err error) {
	job.RetryCount++
	errMsg := err.Error()

	if job.RetryCount < 3 {
		log.Printf("Evaluation for interview %s failed (attempt %d): %s, retrying", job.InterviewID, job.RetryCount, errMsg)

		// Re-queue after backoff
		jobBytes, _ := json.Marshal(job)
		backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
		time.AfterFunc(backoff, func() {
			p.redis.LPush(context.Background(), evaluationQueue, string(jobBytes))
		})
		return
	}

	log.Printf("Evaluation for interview %s failed permanently: %s", job.InterviewID, errMsg)
}
