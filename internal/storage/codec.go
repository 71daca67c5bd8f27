package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"dilemma/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(run model.RunRecord) ([]byte, error) {
	return json.Marshal(run)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeScores(scores []model.EntryScore) ([]byte, error) {
	return json.Marshal(scores)
}

func DecodeScores(data []byte) ([]model.EntryScore, error) {
	var scores []model.EntryScore
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func EncodeSnapshots(snapshots []model.IterationSnapshot) ([]byte, error) {
	return json.Marshal(snapshots)
}

func DecodeSnapshots(data []byte) ([]model.IterationSnapshot, error) {
	var snapshots []model.IterationSnapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func EncodeTranscripts(transcripts []model.MatchTranscript) ([]byte, error) {
	return json.Marshal(transcripts)
}

func DecodeTranscripts(data []byte) ([]model.MatchTranscript, error) {
	var transcripts []model.MatchTranscript
	if err := json.Unmarshal(data, &transcripts); err != nil {
		return nil, err
	}
	return transcripts, nil
}

func checkVersion(record model.VersionedRecord) error {
	if record.SchemaVersion != CurrentSchemaVersion || record.CodecVersion != CurrentCodecVersion {
		return fmt.Errorf("%w: schema=%d codec=%d", ErrVersionMismatch, record.SchemaVersion, record.CodecVersion)
	}
	return nil
}

// StampVersion fills the version fields on a record before persisting.
func StampVersion(record *model.VersionedRecord) {
	record.SchemaVersion = CurrentSchemaVersion
	record.CodecVersion = CurrentCodecVersion
}
