package domain

import "testing"

func TestNewFlashcard(t *testing.T) {
	card, err := NewFlashcard("  What is the capital of France?  ", " Paris ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.Question != "What is the capital of France?" {
		t.Errorf("Expected trimmed question, got %q", card.Question)
	}
	if card.Answer != "Paris" {
		t.Errorf("Expected trimmed answer, got %q", card.Answer)
	}

	if _, err := NewFlashcard("", "Paris"); err != ErrEmptyQuestion {
		t.Errorf("Expected error %v, got %v", ErrEmptyQuestion, err)
	}
	if _, err := NewFlashcard("   ", "Paris"); err != ErrEmptyQuestion {
		t.Errorf("Expected error %v, got %v", ErrEmptyQuestion, err)
	}
	if _, err := NewFlashcard("Question?", ""); err != ErrEmptyAnswer {
		t.Errorf("Expected error %v, got %v", ErrEmptyAnswer, err)
	}
}

func TestFlashcardValidate(t *testing.T) {
	valid := Flashcard{Question: "Q", Answer: "A"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// A card edited down to whitespace fails validation
	blankAnswer := Flashcard{Question: "Q", Answer: "  "}
	if err := blankAnswer.Validate(); err != ErrEmptyAnswer {
		t.Errorf("Expected error %v, got %v", ErrEmptyAnswer, err)
	}
}
