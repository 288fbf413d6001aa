package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

func strPtr(s string) *string          { return &s }
func statusPtr(s Status) *Status       { return &s }
func priorityPtr(p Priority) *Priority { return &p }

func TestStatus_Valid(t *testing.T) {
	t.Parallel()

	for _, s := range []Status{StatusPending, StatusInProgress, StatusCompleted, StatusDeleted} {
		assert.True(t, s.Valid(), "Status(%q).Valid()", s)
	}
	assert.False(t, Status("in-progress").Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("PENDING").Valid())
}

func TestPriority_Valid(t *testing.T) {
	t.Parallel()

	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		assert.True(t, p.Valid(), "Priority(%q).Valid()", p)
	}
	assert.False(t, Priority("urgent").Valid())
	assert.False(t, Priority("").Valid())
}

func TestCreateInput_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    CreateInput
		wantCode taskerr.Code
	}{
		{
			name:  "valid minimal",
			input: CreateInput{Title: "write report"},
		},
		{
			name:  "valid full",
			input: CreateInput{Title: "write report", Description: "quarterly numbers", Priority: PriorityHigh},
		},
		{
			name:     "blank title",
			input:    CreateInput{Title: ""},
			wantCode: taskerr.CodeValidationRequired,
		},
		{
			name:     "whitespace only title",
			input:    CreateInput{Title: "   \t\n  "},
			wantCode: taskerr.CodeValidationRequired,
		},
		{
			name:  "title at limit",
			input: CreateInput{Title: strings.Repeat("a", MaxTitleLength)},
		},
		{
			name:     "title over limit",
			input:    CreateInput{Title: strings.Repeat("a", MaxTitleLength+1)},
			wantCode: taskerr.CodeValidationRange,
		},
		{
			name:  "multibyte title at limit",
			input: CreateInput{Title: strings.Repeat("é", MaxTitleLength)},
		},
		{
			name:     "multibyte title over limit",
			input:    CreateInput{Title: strings.Repeat("é", MaxTitleLength+1)},
			wantCode: taskerr.CodeValidationRange,
		},
		{
			name:  "description at limit",
			input: CreateInput{Title: "t", Description: strings.Repeat("d", MaxDescriptionLength)},
		},
		{
			name:     "description over limit",
			input:    CreateInput{Title: "t", Description: strings.Repeat("d", MaxDescriptionLength+1)},
			wantCode: taskerr.CodeValidationRange,
		},
		{
			name:  "multibyte description at limit",
			input: CreateInput{Title: "t", Description: strings.Repeat("文", MaxDescriptionLength)},
		},
		{
			name:     "unknown priority",
			input:    CreateInput{Title: "t", Priority: "urgent"},
			wantCode: taskerr.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := tt.input
			err := in.Validate()
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, taskerr.GetCode(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCreateInput_Validate_TrimsTitle(t *testing.T) {
	t.Parallel()

	in := CreateInput{Title: "  clean the garage  "}
	require.NoError(t, in.Validate())
	assert.Equal(t, "clean the garage", in.Title)
}

func TestCreateInput_Validate_TrimsDescription(t *testing.T) {
	t.Parallel()

	in := CreateInput{Title: "t", Description: "  some context  "}
	require.NoError(t, in.Validate())
	assert.Equal(t, "some context", in.Description)
}

func TestCreateInput_Validate_DefaultsPriority(t *testing.T) {
	t.Parallel()

	in := CreateInput{Title: "t"}
	require.NoError(t, in.Validate())
	assert.Equal(t, PriorityMedium, in.Priority)

	// An explicit priority is kept.
	in = CreateInput{Title: "t", Priority: PriorityLow}
	require.NoError(t, in.Validate())
	assert.Equal(t, PriorityLow, in.Priority)
}

func TestCreateInput_Validate_TrimBeforeLengthCheck(t *testing.T) {
	t.Parallel()

	// Padding pushes the raw length over the limit but the trimmed
	// title fits, so this must pass.
	in := CreateInput{Title: "  " + strings.Repeat("a", MaxTitleLength) + "  "}
	require.NoError(t, in.Validate())
	assert.Len(t, in.Title, MaxTitleLength)
}

func TestUpdateInput_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    UpdateInput
		wantCode taskerr.Code
	}{
		{
			name:  "title only",
			input: UpdateInput{Title: strPtr("new title")},
		},
		{
			name:  "status only",
			input: UpdateInput{Status: statusPtr(StatusCompleted)},
		},
		{
			name:  "all fields",
			input: UpdateInput{Title: strPtr("t"), Description: strPtr("d"), Status: statusPtr(StatusInProgress), Priority: priorityPtr(PriorityHigh)},
		},
		{
			name:  "no fields is a no-op",
			input: UpdateInput{},
		},
		{
			name:  "multibyte title at limit",
			input: UpdateInput{Title: strPtr(strings.Repeat("é", MaxTitleLength))},
		},
		{
			name:     "blank title",
			input:    UpdateInput{Title: strPtr("   ")},
			wantCode: taskerr.CodeValidationRequired,
		},
		{
			name:     "title over limit",
			input:    UpdateInput{Title: strPtr(strings.Repeat("a", MaxTitleLength+1))},
			wantCode: taskerr.CodeValidationRange,
		},
		{
			name:     "description over limit",
			input:    UpdateInput{Description: strPtr(strings.Repeat("d", MaxDescriptionLength+1))},
			wantCode: taskerr.CodeValidationRange,
		},
		{
			name:     "status deleted rejected",
			input:    UpdateInput{Status: statusPtr(StatusDeleted)},
			wantCode: taskerr.CodeValidation,
		},
		{
			name:     "unknown status",
			input:    UpdateInput{Status: statusPtr("archived")},
			wantCode: taskerr.CodeValidation,
		},
		{
			name:     "unknown priority",
			input:    UpdateInput{Priority: priorityPtr("urgent")},
			wantCode: taskerr.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := tt.input
			err := in.Validate()
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, taskerr.GetCode(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUpdateInput_Validate_TrimsTitle(t *testing.T) {
	t.Parallel()

	in := UpdateInput{Title: strPtr("  padded  ")}
	require.NoError(t, in.Validate())
	require.NotNil(t, in.Title)
	assert.Equal(t, "padded", *in.Title)
}

func TestUpdateInput_Validate_TrimsDescription(t *testing.T) {
	t.Parallel()

	in := UpdateInput{Description: strPtr("  padded  ")}
	require.NoError(t, in.Validate())
	require.NotNil(t, in.Description)
	assert.Equal(t, "padded", *in.Description)
}

func TestTask_Deleted(t *testing.T) {
	t.Parallel()

	assert.False(t, (&Task{Status: StatusPending}).Deleted())
	assert.False(t, (&Task{Status: StatusCompleted}).Deleted())
	assert.True(t, (&Task{Status: StatusDeleted}).Deleted())
}
