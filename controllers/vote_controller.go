package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/services"
	"github.com/tmbbs/tmbbs/utils"
)

// VoteController exposes the vote toggle and vote state endpoints.
type VoteController struct {
	db    *gorm.DB
	votes *services.VoteService
}

// NewVoteController creates a new VoteController instance.
func NewVoteController(db *gorm.DB) *VoteController {
	return &VoteController{db: db, votes: services.NewVoteService(db)}
}

// ToggleVote flips the caller's upvote on an answer and returns the new state.
func (v *VoteController) ToggleVote(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	answerID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	state, err := v.votes.Toggle(userID, answerID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:questions:list:")
	utils.Success(ctx, gin.H{"vote": state})
}

// GetVoteState returns the count and whether the viewer has voted.
func (v *VoteController) GetVoteState(ctx *gin.Context) {
	answerID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	state, err := v.votes.State(answerID, viewerID(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"vote": state})
}
