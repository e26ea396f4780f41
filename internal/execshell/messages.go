package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	messageStandardErrorSuffixTemplate      = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitCloneSubcommandNameConstant  = "clone"
	githubAPISubcommandNameConstant = "api"
)

const (
	gitCloneStartTemplateConstant            = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant          = "Cloned %s into %s"
	gitCloneFailureTemplateConstant          = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant = "Unable to clone %s into %s: %s"
	githubAPIStartTemplateConstant           = "Querying GitHub endpoint %s"
	githubAPISuccessTemplateConstant         = "Queried GitHub endpoint %s"
	githubAPIFailureTemplateConstant         = "Failed to query GitHub endpoint %s (exit code %d%s)"
	githubAPIExecutionFailureTemplate        = "Unable to query GitHub endpoint %s: %s"
)

// CommandMessageFormatter renders human-friendly lifecycle messages for shell commands.
type CommandMessageFormatter struct{}

// BuildStartedMessage renders a start-of-execution message.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage renders a successful-completion message.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage renders a message for a command that exited unsuccessfully.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage renders a message for a command that never produced a result.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		if message := formatter.describeGitCloneMessage(command, result, failure, stage); len(message) > 0 {
			return message
		}
	case CommandGitHub:
		if message := formatter.describeGitHubAPIMessage(command, result, failure, stage); len(message) > 0 {
			return message
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitCloneMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 || arguments[0] != gitCloneSubcommandNameConstant {
		return emptyStringConstant
	}

	cloneSource := fallbackUnknownValueLabelConstant
	cloneDestination := formatter.describeWorkingDirectory(command)
	positionalArguments := formatter.collectNonFlagArguments(arguments[1:])
	if len(positionalArguments) > 0 {
		cloneSource = positionalArguments[0]
	}
	if len(positionalArguments) > 1 {
		cloneDestination = positionalArguments[1]
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCloneStartTemplateConstant, cloneSource, cloneDestination)
	case messageStageSuccess:
		return fmt.Sprintf(gitCloneSuccessTemplateConstant, cloneSource, cloneDestination)
	case messageStageFailure:
		return fmt.Sprintf(gitCloneFailureTemplateConstant, cloneSource, cloneDestination, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCloneExecutionFailureTemplateConstant, cloneSource, cloneDestination, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeGitHubAPIMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 || arguments[0] != githubAPISubcommandNameConstant {
		return emptyStringConstant
	}

	endpoint := fallbackUnknownValueLabelConstant
	positionalArguments := formatter.collectNonFlagArguments(arguments[1:])
	if len(positionalArguments) > 0 {
		endpoint = positionalArguments[0]
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubAPIStartTemplateConstant, endpoint)
	case messageStageSuccess:
		return fmt.Sprintf(githubAPISuccessTemplateConstant, endpoint)
	case messageStageFailure:
		return fmt.Sprintf(githubAPIFailureTemplateConstant, endpoint, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(githubAPIExecutionFailureTemplate, endpoint, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return commandLabel
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	joinedArguments := emptyStringConstant
	if len(command.Details.Arguments) > 0 {
		joinedArguments = commandArgumentsJoinSeparatorConstant + strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, command.Name, joinedArguments) + formatter.formatWorkingDirectorySuffix(command)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	if len(command.Details.WorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, command.Details.WorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(messageStandardErrorSuffixTemplate, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	if len(command.Details.WorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return command.Details.WorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) collectNonFlagArguments(arguments []string) []string {
	var positionalArguments []string
	for _, argument := range arguments {
		if strings.HasPrefix(argument, flagPrefixConstant) {
			continue
		}
		positionalArguments = append(positionalArguments, argument)
	}
	return positionalArguments
}
