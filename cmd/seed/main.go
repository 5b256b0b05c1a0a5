package main

import (
	"context"
	"log"
	"os"

	"hideseek_webapp/internal/db"
	"hideseek_webapp/internal/domain"
	"hideseek_webapp/internal/repository"
)

// Одноразовый сидер: заливает стартовую колоду и банк вопросов.
// Безопасно гонять на пустой базе, на заполненной создаст дубликаты.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	deck := repository.NewDeckRepository(pool)
	questions := repository.NewQuestionRepository(pool)

	for i := range deckCards {
		if err := deck.Create(ctx, &deckCards[i]); err != nil {
			log.Fatalf("seed card %q: %v", deckCards[i].Name, err)
		}
	}
	log.Printf("seeded %d cards", len(deckCards))

	for i := range questionBank {
		if err := questions.Create(ctx, &questionBank[i]); err != nil {
			log.Fatalf("seed question %q: %v", questionBank[i].Question, err)
		}
	}
	log.Printf("seeded %d questions", len(questionBank))
}

var deckCards = []domain.Card{
	// Time bonus
	{Type: domain.CardTimeBonus, Name: "Extra Minute", Description: "Add 60 seconds to your hiding time", Value: 60},
	{Type: domain.CardTimeBonus, Name: "Time Boost", Description: "Add 120 seconds to your hiding time", Value: 120},
	{Type: domain.CardTimeBonus, Name: "Bonus Round", Description: "Add 180 seconds to your hiding time", Value: 180},
	// Powerups
	{Type: domain.CardPowerup, Name: "Hand Expansion", Description: "Increase hand size by 2 cards", Effect: "handSize+2"},
	{Type: domain.CardPowerup, Name: "Double Draw", Description: "Draw twice as many cards next time", Effect: "doubleDraw"},
	{Type: domain.CardPowerup, Name: "Question Shield", Description: "Skip the next question without penalty", Effect: "skipQuestion"},
	// Curses (value = minutes)
	{Type: domain.CardCurse, Name: "FREEZE", Description: "Stay still for 3 minutes", Value: 3},
	{Type: domain.CardCurse, Name: "SLOW MOTION", Description: "Move at half speed for 5 minutes", Value: 5},
	{Type: domain.CardCurse, Name: "BLIND", Description: "Hide your location for 2 minutes", Value: 2},
	{Type: domain.CardCurse, Name: "STUN", Description: "Cannot use cards for 4 minutes", Value: 4},
}

var questionBank = []domain.Question{
	// Matching: draw 3 keep 1
	{Category: "Matching", Question: "What landmark is closest to your hiding spot?", Answer: "Answer with a specific landmark name", Type: domain.QuestionMatching, DrawCards: 3, KeepCards: 1, TimeLimit: 300},
	{Category: "Matching", Question: "What type of building are you near?", Answer: "Answer with building type", Type: domain.QuestionMatching, DrawCards: 3, KeepCards: 1, TimeLimit: 300},
	{Category: "Matching", Question: "What color is the most prominent sign near you?", Answer: "Answer with a color", Type: domain.QuestionMatching, DrawCards: 3, KeepCards: 1, TimeLimit: 300},
	// Measuring: draw 2 keep 1
	{Category: "Measuring", Question: "How many steps from your hiding spot to the nearest transit stop?", Answer: "Answer with a number", Type: domain.QuestionMeasuring, DrawCards: 2, KeepCards: 1, TimeLimit: 300},
	{Category: "Measuring", Question: "How many minutes walk to the nearest landmark?", Answer: "Answer with a number", Type: domain.QuestionMeasuring, DrawCards: 2, KeepCards: 1, TimeLimit: 300},
	{Category: "Measuring", Question: "How many buildings can you see from your spot?", Answer: "Answer with a number", Type: domain.QuestionMeasuring, DrawCards: 2, KeepCards: 1, TimeLimit: 300},
	// Radar: draw 2 keep 1, reveals hider location
	{Category: "Radar", Question: "What is the name of the street you are on?", Answer: "Answer with street name", Type: domain.QuestionRadar, DrawCards: 2, KeepCards: 1, TimeLimit: 300},
	{Category: "Radar", Question: "What is the nearest intersection?", Answer: "Answer with intersection names", Type: domain.QuestionRadar, DrawCards: 2, KeepCards: 1, TimeLimit: 300},
	// Thermometer: draw 1 keep 1
	{Category: "Thermometer", Question: "What direction are you facing?", Answer: "Answer with a cardinal direction", Type: domain.QuestionThermometer, DrawCards: 1, KeepCards: 1, TimeLimit: 300},
	{Category: "Thermometer", Question: "What is the elevation of your hiding spot?", Answer: "Answer with approximate elevation", Type: domain.QuestionThermometer, DrawCards: 1, KeepCards: 1, TimeLimit: 300},
	// Photo: draw 3 keep 2, answer requires photo evidence
	{Category: "Photo", Question: "Take a photo of a unique feature near your hiding spot", Answer: "Submit a photo", Type: domain.QuestionPhoto, DrawCards: 3, KeepCards: 2, TimeLimit: 600},
	{Category: "Photo", Question: "Take a photo showing your view from the hiding spot", Answer: "Submit a photo", Type: domain.QuestionPhoto, DrawCards: 3, KeepCards: 2, TimeLimit: 600},
	// Tentacle: draw 4 keep 1
	{Category: "Tentacle", Question: "Describe three distinct features visible from your hiding spot", Answer: "Answer with three features", Type: domain.QuestionTentacle, DrawCards: 4, KeepCards: 1, TimeLimit: 300},
	{Category: "Tentacle", Question: "What are the three closest landmarks to your position?", Answer: "Answer with three landmark names", Type: domain.QuestionTentacle, DrawCards: 4, KeepCards: 1, TimeLimit: 300},
}
