package registryEvents

import (
	"bytes"
	_ "embed"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

//go:embed registryABI.json
var registryABIJSON []byte

// RegistryABI parses the embedded registry event definitions.
func RegistryABI() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(registryABIJSON))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse registry abi: %w", err)
	}
	return parsed, nil
}

// Decoder turns raw registry logs into typed events, preserving input
// order.
type Decoder struct {
	abi    abi.ABI
	logger *zap.Logger
}

func NewDecoder(logger *zap.Logger) (*Decoder, error) {
	parsed, err := RegistryABI()
	if err != nil {
		return nil, err
	}
	return &Decoder{
		abi:    parsed,
		logger: logger,
	}, nil
}

func (d *Decoder) DecodeLogs(logs []types.Log) ([]Event, error) {
	events := make([]Event, 0, len(logs))
	for _, lg := range logs {
		event, err := d.decodeLog(lg)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (d *Decoder) decodeLog(lg types.Log) (Event, error) {
	if lg.Removed {
		return nil, fmt.Errorf("removed log at block %d index %d", lg.BlockNumber, lg.Index)
	}
	if len(lg.Topics) == 0 {
		return nil, fmt.Errorf("log without topics at block %d index %d", lg.BlockNumber, lg.Index)
	}

	meta := Meta{Block: lg.BlockNumber, Index: lg.Index, TxHash: lg.TxHash}

	eventABI, err := d.abi.EventByID(lg.Topics[0])
	if err != nil {
		d.logger.Sugar().Warnw("Unrecognized registry log",
			zap.String("topic0", lg.Topics[0].Hex()),
			zap.Uint64("block", lg.BlockNumber),
			zap.Uint("logIndex", lg.Index),
		)
		return &Unknown{Meta: meta, Topic0: lg.Topics[0]}, nil
	}

	fields := map[string]any{}
	if len(eventABI.Inputs.NonIndexed()) > 0 {
		if err := d.abi.UnpackIntoMap(fields, eventABI.Name, lg.Data); err != nil {
			return nil, fmt.Errorf("unpack %s data at block %d: %w", eventABI.Name, lg.BlockNumber, err)
		}
	}
	if indexed := indexedInputs(eventABI.Inputs); len(indexed) > 0 {
		if err := abi.ParseTopicsIntoMap(fields, indexed, lg.Topics[1:]); err != nil {
			return nil, fmt.Errorf("parse %s topics at block %d: %w", eventABI.Name, lg.BlockNumber, err)
		}
	}

	switch eventABI.Name {
	case "NewGovernance":
		return &NewGovernance{
			Meta:       meta,
			Governance: fields["governance"].(common.Address),
		}, nil
	case "NewRelease":
		return &NewRelease{
			Meta:       meta,
			ReleaseID:  fields["release_id"].(*big.Int),
			Template:   fields["template"].(common.Address),
			APIVersion: fields["api_version"].(string),
		}, nil
	case "NewVault":
		return &NewVault{
			Meta:       meta,
			Token:      fields["token"].(common.Address),
			VaultID:    fields["vault_id"].(*big.Int),
			Vault:      fields["vault"].(common.Address),
			APIVersion: fields["api_version"].(string),
		}, nil
	case "NewExperimentalVault":
		return &NewVault{
			Meta:         meta,
			Token:        fields["token"].(common.Address),
			Deployer:     fields["deployer"].(common.Address),
			Vault:        fields["vault"].(common.Address),
			APIVersion:   fields["api_version"].(string),
			Experimental: true,
		}, nil
	case "VaultTagged":
		return &VaultTagged{
			Meta:  meta,
			Vault: fields["vault"].(common.Address),
			Tag:   fields["tag"].(string),
		}, nil
	default:
		return &Unknown{Meta: meta, Name: eventABI.Name, Topic0: lg.Topics[0]}, nil
	}
}

func indexedInputs(inputs abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(inputs))
	for _, input := range inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	return indexed
}
