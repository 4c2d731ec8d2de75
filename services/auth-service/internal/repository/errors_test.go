package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(mongo.ErrNoDocuments), ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	err := translateError(dup)
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.True(t, mongo.IsDuplicateKeyError(err))

	other := errors.New("connection reset")
	assert.Same(t, other, translateError(other))
}
