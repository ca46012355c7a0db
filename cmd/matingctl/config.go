package main

import (
	"encoding/json"
	"fmt"
	"os"

	"matingcore/pkg/matingapi"
)

// loadRunRequestFromConfig reads a JSON config file into a RunRequest,
// field by field, tolerating missing/partial keys — same shape as the
// teacher's loadRunRequestFromConfig (cmd/protogonosctl/config.go).
func loadRunRequestFromConfig(path string) (matingapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return matingapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return matingapi.RunRequest{}, err
	}

	var req matingapi.RunRequest
	if v, ok := asString(raw["run_id"]); ok {
		req.RunID = v
	}
	if v, ok := asIntSlice(raw["sub_pop_sizes"]); ok {
		req.SubPopSizes = v
	}
	if v, ok := asInt(raw["ploidy"]); ok {
		req.Ploidy = v
	}
	if v, ok := asIntSlice(raw["chromosome_loci"]); ok {
		req.ChromosomeLoci = v
	}
	if v, ok := asBool(raw["has_sex_chrom"]); ok {
		req.HasSexChrom = v
	}
	if v, ok := asInt(raw["seed_num_alleles"]); ok {
		req.SeedNumAlleles = v
	}
	if v, ok := asString(raw["scheme"]); ok {
		req.Scheme = v
	}
	if v, ok := asString(raw["mode"]); ok {
		req.Mode = v
	}
	if v, ok := asFloat64(raw["num_offspring"]); ok {
		req.NumOffspring = v
	}
	if v, ok := asInt(raw["max_num_offspring"]); ok {
		req.MaxNumOffspring = v
	}
	if v, ok := asIntSlice(raw["new_sub_pop_size"]); ok {
		req.NewSubPopSize = v
	}
	if v, ok := asString(raw["new_sub_pop_size_expr"]); ok {
		req.NewSubPopSizeExpr = v
	}
	if v, ok := asBool(raw["cont_when_uni_sex"]); ok {
		req.ContWhenUniSex = v
	}
	if v, ok := asIntSlice(raw["control_loci"]); ok {
		req.ControlLoci = v
	}
	if v, ok := asIntSlice(raw["control_alleles"]); ok {
		req.ControlAlleles = v
	}
	if v, ok := asFloat64(raw["control_freq_lo"]); ok {
		req.ControlFreqLo = v
	}
	if v, ok := asFloat64(raw["control_freq_hi"]); ok {
		req.ControlFreqHi = v
	}
	if v, ok := asInt(raw["control_max_attempts"]); ok {
		req.ControlMaxAttempts = v
	}
	if v, ok := asInt(raw["generations"]); ok {
		req.Generations = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	return req, nil
}

func loadOrDefaultRunRequest(configPath string) (matingapi.RunRequest, error) {
	if configPath == "" {
		return matingapi.RunRequest{}, nil
	}
	req, err := loadRunRequestFromConfig(configPath)
	if err != nil {
		return matingapi.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

func asIntSlice(v any) ([]int, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		n, ok := asInt(item)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
