// Package reasoning sends the assembled dossier to the hosted Bedrock agent
// and collects its streamed narrative report. The agent owns the actual
// compliance reasoning, including retrieval against its knowledge base; this
// side only builds the prompt and drains the stream.
package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/google/uuid"

	"github.com/openomi/pof-auditor/internal/config"
	"github.com/openomi/pof-auditor/internal/models"
	"github.com/openomi/pof-auditor/internal/utils"
)

type Reasoner interface {
	// Reason always returns a report. Configuration and transport failures
	// come back as in-band error reports, never as panics or errors: the
	// verdict stage still runs against them and finds no keywords.
	Reason(ctx context.Context, dossier models.Dossier, req models.AuditRequest) string
}

type agentReasoner struct {
	client       *bedrockagentruntime.Client
	agentID      string
	agentAliasID string
	timeout      time.Duration
	logger       *utils.Logger
}

// NewAgentReasoner builds the Bedrock agent-runtime client. Missing agent
// identifiers are not an error here; Reason reports them in-band so the rest
// of the pipeline keeps working on a partially configured deployment.
func NewAgentReasoner(ctx context.Context, cfg *config.Config, logger *utils.Logger) (Reasoner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &agentReasoner{
		client:       bedrockagentruntime.NewFromConfig(awsCfg),
		agentID:      cfg.BedrockAgentID,
		agentAliasID: cfg.BedrockAgentAliasID,
		timeout:      cfg.ReasoningTimeout,
		logger:       logger,
	}, nil
}

func (r *agentReasoner) Reason(ctx context.Context, dossier models.Dossier, req models.AuditRequest) string {
	if r.agentID == "" || r.agentAliasID == "" {
		r.logger.Error("reasoning agent not configured",
			"agent_id_set", r.agentID != "",
			"agent_alias_id_set", r.agentAliasID != "")
		return "ERROR: reasoning agent is not configured (missing BEDROCK_AGENT_ID or BEDROCK_AGENT_ALIAS_ID)"
	}

	prompt, err := BuildPrompt(dossier, req)
	if err != nil {
		r.logger.Error("failed to build reasoning prompt", "error", err)
		return fmt.Sprintf("ERROR: reasoning agent call failed: %v", err)
	}

	// The agent may make nested knowledge-base and tool calls, so the
	// deadline is generous rather than request-sized.
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// Fresh session per request so no context bleeds between audits.
	sessionID := uuid.New().String()

	r.logger.Info("invoking reasoning agent",
		"session_id", sessionID,
		"documents", len(dossier),
		"program", req.ProgramCode)

	out, err := r.client.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(r.agentID),
		AgentAliasId: aws.String(r.agentAliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(prompt),
	})
	if err != nil {
		r.logger.Error("reasoning agent invocation failed", "error", err)
		return fmt.Sprintf("ERROR: reasoning agent call failed: %v", err)
	}

	report, err := drainStream(out)
	if err != nil {
		r.logger.Error("reasoning agent stream failed", "error", err)
		return fmt.Sprintf("ERROR: reasoning agent call failed: %v", err)
	}

	r.logger.Info("reasoning agent responded", "session_id", sessionID, "report_length", len(report))
	return report
}

// drainStream concatenates chunk bytes in arrival order and returns the
// report only once the stream is fully consumed. A partial concatenation is
// never observable by the caller.
func drainStream(out *bedrockagentruntime.InvokeAgentOutput) (string, error) {
	stream := out.GetStream()
	defer stream.Close()

	var buf bytes.Buffer
	for event := range stream.Events() {
		switch e := event.(type) {
		case *types.ResponseStreamMemberChunk:
			buf.Write(e.Value.Bytes)
		}
	}

	if err := stream.Err(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// BuildPrompt wraps the serialized dossier and program context in the single
// natural-language request the agent expects.
func BuildPrompt(dossier models.Dossier, req models.AuditRequest) (string, error) {
	serialized, err := json.MarshalIndent(dossier, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize dossier: %w", err)
	}

	return fmt.Sprintf(`You are a pre-validation auditor for immigration proof of funds documentation.

Applicant context:
- Immigration program: %s
- Family size: %d

Below are the extracted bank statements for all uploaded documents, in upload
order. Entries with an "error" field are documents that could not be
processed; account for them in your assessment.

%s

Audit the statements against the proof-of-funds requirements for this program
and family size. Mark every finding with a "RED FLAG:" line prefixed by an
"❌" marker, explain large deposits, balance inconsistencies and missing
periods, and finish with a single-word final verdict line reading APPROVED or
REJECTED.`, req.ProgramCode, req.FamilySize, string(serialized)), nil
}
