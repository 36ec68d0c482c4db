package mockstore

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

func programFromInput(in *spotr.ProgramInput) *spotr.Program {
	p := &spotr.Program{
		Name:        in.Name,
		Description: in.Description,
		Days:        make([]spotr.Day, 0, len(in.Days)),
	}
	for _, d := range in.Days {
		day := spotr.Day{
			ID:          newID("day"),
			Name:        d.Name,
			Description: d.Description,
			DayNumber:   *d.DayNumber,
			Blocks:      make([]spotr.Block, 0, len(d.Blocks)),
		}
		for _, b := range d.Blocks {
			params, _ := b.Parameters()
			block := spotr.Block{
				ID:               newID("block"),
				OrderIndex:       *b.OrderIndex,
				Name:             b.Name,
				Description:      b.Description,
				FormatType:       b.FormatType,
				FormatParameters: params,
				Exercises:        make([]spotr.Exercise, 0, len(b.Exercises)),
			}
			for _, e := range b.Exercises {
				block.Exercises = append(block.Exercises, spotr.Exercise{
					ID:                   newID("exercise"),
					OrderIndex:           *e.OrderIndex,
					ExerciseName:         e.ExerciseName,
					VideoURL:             e.VideoURL,
					Notes:                e.Notes,
					ModifiableParameters: e.ModifiableParameters,
				})
			}
			day.Blocks = append(day.Blocks, block)
		}
		p.Days = append(p.Days, day)
	}
	sortProgram(p)
	return p
}

// applyUpdate merges u into p. Days, blocks and exercises are matched by
// position key; entries with no match are appended. Fields the update does
// not name keep their stored values.
func applyUpdate(p *spotr.Program, u *spotr.ProgramUpdate) error {
	if u.Name != nil {
		p.Name = *u.Name
	}
	u.Description.Apply(&p.Description)

	var invalid []schema.FieldError
	for i, du := range u.Days {
		day, ok := p.Day(*du.DayNumber)
		if !ok {
			p.Days = append(p.Days, spotr.Day{ID: newID("day"), DayNumber: *du.DayNumber, Blocks: []spotr.Block{}})
			day = &p.Days[len(p.Days)-1]
		}
		du.Name.Apply(&day.Name)
		du.Description.Apply(&day.Description)

		for j, bu := range du.Blocks {
			block, ok := day.Block(*bu.OrderIndex)
			if !ok {
				day.Blocks = append(day.Blocks, spotr.Block{ID: newID("block"), OrderIndex: *bu.OrderIndex, Exercises: []spotr.Exercise{}})
				block = &day.Blocks[len(day.Blocks)-1]
			}
			invalid = append(invalid, mergeBlock(block, bu, fmt.Sprintf("update.days[%d].blocks[%d]", i, j))...)

			for k, eu := range bu.Exercises {
				ex, ok := block.Exercise(*eu.OrderIndex)
				if !ok {
					if eu.ExerciseName == nil || strings.TrimSpace(*eu.ExerciseName) == "" {
						invalid = append(invalid, schema.FieldError{
							Field:   fmt.Sprintf("update.days[%d].blocks[%d].exercises[%d].exercise_name", i, j, k),
							Message: "is required when adding a new exercise",
						})
						continue
					}
					block.Exercises = append(block.Exercises, spotr.Exercise{ID: newID("exercise"), OrderIndex: *eu.OrderIndex})
					ex = &block.Exercises[len(block.Exercises)-1]
				}
				mergeExercise(ex, eu)
			}
		}
	}
	if len(invalid) > 0 {
		return &schema.ValidationError{Fields: invalid}
	}
	sortProgram(p)
	return nil
}

// mergeBlock applies u to b. Parameters sent without a format type are
// checked against the block's stored format type.
func mergeBlock(b *spotr.Block, u spotr.BlockUpdate, path string) []schema.FieldError {
	u.Name.Apply(&b.Name)
	u.Description.Apply(&b.Description)

	formatChanged := false
	if u.FormatType.Set {
		before := b.FormatType
		u.FormatType.Apply(&b.FormatType)
		formatChanged = formatOf(before) != formatOf(b.FormatType)
	}
	switch {
	case u.FormatParameters != nil:
		ft := formatOf(b.FormatType)
		if errs := schema.CheckFormatParameters(ft, u.FormatParameters, path, false); len(errs) > 0 {
			return errs
		}
		params, err := spotr.ParseFormatParameters(ft, u.FormatParameters)
		if err != nil {
			return []schema.FieldError{{Field: path + ".format_parameters", Message: err.Error()}}
		}
		b.FormatParameters = params
	case formatChanged:
		b.FormatParameters = nil
	}
	return nil
}

func mergeExercise(e *spotr.Exercise, u spotr.ExerciseUpdate) {
	if u.ExerciseName != nil {
		e.ExerciseName = *u.ExerciseName
	}
	u.VideoURL.Apply(&e.VideoURL)
	u.Notes.Apply(&e.Notes)
	if u.ModifiableParameters.Set {
		e.ModifiableParameters = nil
		if u.ModifiableParameters.Value != nil {
			e.ModifiableParameters = *u.ModifiableParameters.Value
		}
	}
}

func formatOf(ft *spotr.FormatType) spotr.FormatType {
	if ft == nil {
		return ""
	}
	return *ft
}

func sortProgram(p *spotr.Program) {
	slices.SortStableFunc(p.Days, func(a, b spotr.Day) int { return cmp.Compare(a.DayNumber, b.DayNumber) })
	for i := range p.Days {
		blocks := p.Days[i].Blocks
		slices.SortStableFunc(blocks, func(a, b spotr.Block) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })
		for j := range blocks {
			slices.SortStableFunc(blocks[j].Exercises, func(a, b spotr.Exercise) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })
		}
	}
}

func programFromBlueprint(bp *spotr.Blueprint, client spotr.Document, in *spotr.BlueprintProgramInput) *spotr.Program {
	clientName, _ := client["name"].(string)
	if clientName == "" {
		clientName = in.ClientID
	}
	desc := fmt.Sprintf("Personalized from %q blueprint for %s", bp.Name, clientName)
	if in.StartDate != nil {
		desc += fmt.Sprintf(", starting %s", *in.StartDate)
	}
	if in.Customizations != nil && strings.TrimSpace(*in.Customizations) != "" {
		desc += ". " + strings.TrimSpace(*in.Customizations)
	}

	p := &spotr.Program{
		CoachID:     bp.CoachID,
		MemberID:    in.ClientID,
		Name:        in.ProgramName,
		Description: &desc,
		Days:        []spotr.Day{},
	}
	if len(bp.Phases) == 0 {
		return p
	}

	standard := spotr.FormatStandard
	phase := bp.Phases[0]
	for i, session := range phase.SessionTemplates {
		name, sessionDesc := session.Name, session.Description
		blockName := phase.Name
		block := spotr.Block{
			ID:         newID("block"),
			OrderIndex: 0,
			Name:       &blockName,
			FormatType: &standard,
			Exercises:  make([]spotr.Exercise, 0, len(session.ExerciseCategories)),
		}
		for j, cat := range session.ExerciseCategories {
			notes := cat.IntensityGuideline
			if cat.Notes != nil {
				notes += ". " + *cat.Notes
			}
			block.Exercises = append(block.Exercises, spotr.Exercise{
				ID:           newID("exercise"),
				OrderIndex:   j,
				ExerciseName: cat.Category,
				Notes:        &notes,
				ModifiableParameters: map[string]any{
					"set_range": cat.SetRange,
					"rep_range": cat.RepRange,
				},
			})
		}
		p.Days = append(p.Days, spotr.Day{
			ID:          newID("day"),
			Name:        &name,
			Description: &sessionDesc,
			DayNumber:   i + 1,
			Blocks:      []spotr.Block{block},
		})
	}
	return p
}
