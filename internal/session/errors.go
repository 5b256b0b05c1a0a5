package session

import "errors"

// Rejections are local and recoverable: handlers map them to inline messages,
// they never kill the session.
var (
	ErrEmptyDeck              = errors.New("deck is empty")
	ErrInvalidCardType        = errors.New("invalid card type")
	ErrQuestionAlreadyPending = errors.New("a question is already pending")
	ErrNoQuestionsInCategory  = errors.New("no questions in category")
	ErrNoPendingQuestion      = errors.New("no pending question")
	ErrPhotoRequired          = errors.New("photo required for a correct photo answer")
	ErrRoleConflict           = errors.New("hider slot raced and lost")
	ErrGameEnded              = errors.New("game has ended")
	ErrUnknownRole            = errors.New("unknown role")
)
