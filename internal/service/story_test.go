package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vicharcha/internal/domain"
	"vicharcha/internal/media"
	"vicharcha/internal/service/mocks"
	"vicharcha/internal/upload"
)

type StoryServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	stories   *mocks.MockStoryStore
	receiver  *mocks.MockChunkReceiver
	processor *mocks.MockAudioProcessor
	files     *mocks.MockMediaFiles
	publisher *mocks.MockPublisher

	service *StoryService
	logger  *slog.Logger
	now     time.Time
	alice   domain.User
	bob     domain.User
}

func (s *StoryServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.stories = mocks.NewMockStoryStore(s.ctrl)
	s.receiver = mocks.NewMockChunkReceiver(s.ctrl)
	s.processor = mocks.NewMockAudioProcessor(s.ctrl)
	s.files = mocks.NewMockMediaFiles(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.alice = domain.User{ID: "alice", Username: "Alice"}
	s.bob = domain.User{ID: "bob", Username: "Bob", Image: "/avatars/bob.png"}

	s.service = s.newService(s.publisher)
}

func (s *StoryServiceTestSuite) newService(publisher Publisher) *StoryService {
	svc := NewStoryService(s.stories, s.receiver, s.processor, s.files, publisher, s.logger)
	svc.now = func() time.Time { return s.now }
	return svc
}

func (s *StoryServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestStoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StoryServiceTestSuite))
}

func (s *StoryServiceTestSuite) story(id, owner string, createdAt time.Time) domain.Story {
	return domain.Story{
		ID:        id,
		UserID:    owner,
		MediaURL:  "/uploads/stories/" + id + ".mp4",
		Type:      domain.MediaVideo,
		Duration:  domain.DefaultDuration,
		Category:  domain.DefaultCategory,
		CreatedAt: createdAt,
		ExpiresAt: domain.NewExpiry(createdAt),
	}
}

func (s *StoryServiceTestSuite) TestCreate() {
	ctx := context.Background()

	var stored *domain.Story
	s.stories.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, story *domain.Story) error {
			stored = story
			return nil
		},
	)
	s.files.EXPECT().Owner("https://cdn.example.com/a.jpg").Return("", false)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), domain.ActionCreated).Return(nil)

	story, err := s.service.Create(ctx, s.alice, CreateStoryInput{
		MediaURL: "https://cdn.example.com/a.jpg",
		Type:     domain.MediaImage,
	})

	s.Require().NoError(err)
	s.Same(stored, story)
	s.NotEmpty(story.ID)
	s.Equal("alice", story.UserID)
	s.Equal("Alice", story.Username)
	s.Equal(domain.DefaultUserImage, story.UserImage)
	s.Equal(domain.DefaultDuration, story.Duration)
	s.Equal(domain.DefaultCategory, story.Category)
	s.Equal(s.now, story.CreatedAt)
	s.Equal(24*time.Hour, story.ExpiresAt.Sub(story.CreatedAt))
	s.False(story.Viewed)
	s.NotNil(story.Items)
}

func (s *StoryServiceTestSuite) TestCreate_Invalid() {
	_, err := s.service.Create(context.Background(), s.alice, CreateStoryInput{
		Type:     domain.MediaVideo,
		Duration: 500,
	})

	s.ErrorIs(err, domain.ErrInvalidStory)
	s.Contains(err.Error(), "media url")
	s.Contains(err.Error(), "duration")
}

func (s *StoryServiceTestSuite) TestCreate_StoreError() {
	ctx := context.Background()
	s.files.EXPECT().Owner("/x.jpg").Return("", false)
	s.stories.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("connection refused"))

	_, err := s.service.Create(ctx, s.alice, CreateStoryInput{MediaURL: "/x.jpg", Type: domain.MediaImage})

	s.Error(err)
	s.Contains(err.Error(), "create story")
}

func (s *StoryServiceTestSuite) TestCreate_PublishFailureIsNotFatal() {
	ctx := context.Background()
	s.files.EXPECT().Owner("/x.jpg").Return("", false)
	s.stories.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), domain.ActionCreated).Return(errors.New("channel closed"))

	_, err := s.service.Create(ctx, s.alice, CreateStoryInput{MediaURL: "/x.jpg", Type: domain.MediaImage})
	s.NoError(err)
}

func (s *StoryServiceTestSuite) TestCreate_PublisherNil() {
	ctx := context.Background()
	svc := s.newService(nil)
	s.files.EXPECT().Owner("/x.jpg").Return("", false)
	s.stories.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	_, err := svc.Create(ctx, s.alice, CreateStoryInput{MediaURL: "/x.jpg", Type: domain.MediaImage})
	s.NoError(err)
}

func (s *StoryServiceTestSuite) TestCreate_LocalMediaOfOtherUser() {
	ctx := context.Background()
	alices := s.story("a1", "alice", s.now)

	s.files.EXPECT().Owner(alices.MediaURL).Return("a1", true)
	s.stories.EXPECT().Get(ctx, "a1").Return(&alices, nil)

	_, err := s.service.Create(ctx, s.bob, CreateStoryInput{MediaURL: alices.MediaURL, Type: domain.MediaVideo})
	s.ErrorIs(err, domain.ErrInvalidStory)
	s.Contains(err.Error(), "another user")
}

func (s *StoryServiceTestSuite) TestCreate_UnknownLocalMedia() {
	ctx := context.Background()

	s.files.EXPECT().Owner("/uploads/processed/x.mp4").Return("", true)
	_, err := s.service.Create(ctx, s.alice, CreateStoryInput{MediaURL: "/uploads/processed/x.mp4", Type: domain.MediaVideo})
	s.ErrorIs(err, domain.ErrInvalidStory)

	s.files.EXPECT().Owner("/uploads/stories/ghost.mp4").Return("ghost", true)
	s.stories.EXPECT().Get(ctx, "ghost").Return(nil, domain.ErrStoryNotFound)
	_, err = s.service.Create(ctx, s.alice, CreateStoryInput{MediaURL: "/uploads/stories/ghost.mp4", Type: domain.MediaVideo})
	s.ErrorIs(err, domain.ErrInvalidStory)
}

func (s *StoryServiceTestSuite) TestCreate_OwnLocalMedia() {
	ctx := context.Background()
	own := s.story("a1", "alice", s.now)

	s.files.EXPECT().Owner(own.MediaURL).Return("a1", true)
	s.stories.EXPECT().Get(ctx, "a1").Return(&own, nil)
	s.stories.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), domain.ActionCreated).Return(nil)

	story, err := s.service.Create(ctx, s.alice, CreateStoryInput{MediaURL: own.MediaURL, Type: domain.MediaVideo})
	s.Require().NoError(err)
	s.NotEqual("a1", story.ID)
}

func (s *StoryServiceTestSuite) TestList_NewestFirstWithViewerFlags() {
	ctx := context.Background()
	older := s.story("s1", "alice", s.now.Add(-2*time.Hour))
	newer := s.story("s2", "alice", s.now.Add(-time.Hour))
	older.Viewed = true // the owner's own flag is not what bob sees

	s.stories.EXPECT().List(ctx, domain.StoryFilter{Now: s.now}).Return([]domain.Story{older, newer}, nil)
	s.stories.EXPECT().ViewedBy(ctx, "bob", []string{"s2", "s1"}).Return(map[string]bool{"s2": true}, nil)

	stories, err := s.service.List(ctx, "", "bob")

	s.Require().NoError(err)
	s.Require().Len(stories, 2)
	s.Equal("s2", stories[0].ID)
	s.True(stories[0].Viewed)
	s.Equal("s1", stories[1].ID)
	s.False(stories[1].Viewed)
	s.Equal((23 * time.Hour).Milliseconds(), stories[0].TimeLeft)
	s.Equal((22 * time.Hour).Milliseconds(), stories[1].TimeLeft)
}

func (s *StoryServiceTestSuite) TestList_AnonymousSkipsViews() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now)

	s.stories.EXPECT().List(ctx, domain.StoryFilter{UserID: "alice", Now: s.now}).Return([]domain.Story{st}, nil)

	stories, err := s.service.List(ctx, "alice", "")

	s.Require().NoError(err)
	s.Require().Len(stories, 1)
	s.False(stories[0].Viewed)
	s.NotNil(stories[0].Items)
}

func (s *StoryServiceTestSuite) TestList_DropsExpired() {
	ctx := context.Background()
	expired := s.story("old", "alice", s.now.Add(-24*time.Hour))

	s.stories.EXPECT().List(ctx, gomock.Any()).Return([]domain.Story{expired}, nil)

	stories, err := s.service.List(ctx, "", "")
	s.Require().NoError(err)
	s.Empty(stories)
}

func (s *StoryServiceTestSuite) TestList_StoreError() {
	ctx := context.Background()
	s.stories.EXPECT().List(ctx, gomock.Any()).Return(nil, errors.New("timeout"))

	stories, err := s.service.List(ctx, "", "")
	s.Error(err)
	s.Nil(stories)
}

func (s *StoryServiceTestSuite) TestView_ByOtherUser() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now.Add(-time.Hour))

	gomock.InOrder(
		s.stories.EXPECT().Get(ctx, "s1").Return(&st, nil),
		s.stories.EXPECT().RecordView(ctx, "s1", "bob", s.now).Return(nil),
		s.stories.EXPECT().MarkViewed(ctx, "s1", "bob").Return(false, nil),
		s.publisher.EXPECT().Publish(ctx, &st, domain.ActionViewed).Return(nil),
	)

	story, err := s.service.View(ctx, "s1", s.bob)

	s.Require().NoError(err)
	s.True(story.Viewed)
}

func (s *StoryServiceTestSuite) TestView_NotFound() {
	ctx := context.Background()
	s.stories.EXPECT().Get(ctx, "missing").Return(nil, domain.ErrStoryNotFound)

	_, err := s.service.View(ctx, "missing", s.bob)
	s.ErrorIs(err, domain.ErrStoryNotFound)
}

func (s *StoryServiceTestSuite) TestView_Expired() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now.Add(-25*time.Hour))
	s.stories.EXPECT().Get(ctx, "s1").Return(&st, nil)

	_, err := s.service.View(ctx, "s1", s.bob)
	s.ErrorIs(err, domain.ErrStoryNotFound)
}

func (s *StoryServiceTestSuite) TestDelete_Owner() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now)

	s.stories.EXPECT().Get(ctx, "s1").Return(&st, nil)
	s.stories.EXPECT().Delete(ctx, "s1").Return(nil)
	s.files.EXPECT().StoryMedia(st.MediaURL, "s1").Return(upload.StoryMedia{UploadURL: st.MediaURL}, true)
	s.files.EXPECT().Remove(st.MediaURL).Return(true, nil)
	s.publisher.EXPECT().Publish(ctx, &st, domain.ActionDeleted).Return(nil)

	s.NoError(s.service.Delete(ctx, "s1", s.alice))
}

func (s *StoryServiceTestSuite) TestDelete_ProcessedRemovesOriginal() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now)
	st.MediaURL = "/uploads/processed/processed_s1.mp4"

	s.stories.EXPECT().Get(ctx, "s1").Return(&st, nil)
	s.stories.EXPECT().Delete(ctx, "s1").Return(nil)
	s.files.EXPECT().StoryMedia(st.MediaURL, "s1").Return(upload.StoryMedia{
		UploadURL:    "/uploads/stories/s1.mp4",
		ProcessedURL: st.MediaURL,
	}, true)
	s.files.EXPECT().Remove("/uploads/processed/processed_s1.mp4").Return(true, nil)
	s.files.EXPECT().Remove("/uploads/stories/s1.mp4").Return(true, nil)
	s.publisher.EXPECT().Publish(ctx, &st, domain.ActionDeleted).Return(nil)

	s.NoError(s.service.Delete(ctx, "s1", s.alice))
}

func (s *StoryServiceTestSuite) TestDelete_LeavesForeignMedia() {
	ctx := context.Background()
	st := s.story("b1", "bob", s.now)
	st.MediaURL = "/uploads/stories/a1.mp4"

	s.stories.EXPECT().Get(ctx, "b1").Return(&st, nil)
	s.stories.EXPECT().Delete(ctx, "b1").Return(nil)
	s.files.EXPECT().StoryMedia(st.MediaURL, "b1").Return(upload.StoryMedia{}, false)
	s.publisher.EXPECT().Publish(ctx, &st, domain.ActionDeleted).Return(nil)

	s.NoError(s.service.Delete(ctx, "b1", s.bob))
}

func (s *StoryServiceTestSuite) TestDelete_NotOwner() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now)
	s.stories.EXPECT().Get(ctx, "s1").Return(&st, nil)

	err := s.service.Delete(ctx, "s1", s.bob)
	s.ErrorIs(err, domain.ErrStoryNotFound)
}

func (s *StoryServiceTestSuite) TestCompleteUpload_IntermediatePart() {
	ctx := context.Background()
	data := strings.NewReader("part")

	s.stories.EXPECT().Get(ctx, "up1").Return(nil, domain.ErrStoryNotFound)
	s.receiver.EXPECT().WriteChunk(ctx, upload.Chunk{
		UploadID: "up1", Index: 0, Total: 3, Filename: "clip.mp4", Data: data,
	}).Return(&upload.Result{UploadID: "up1", Index: 0, Remaining: 2}, nil)

	res, err := s.service.CompleteUpload(ctx, s.alice, UploadInput{
		UploadID: "up1", Index: 0, Total: 3, Filename: "clip.mp4", Data: data,
	})

	s.Require().NoError(err)
	s.False(res.Complete)
	s.Equal(2, res.Remaining)
	s.Nil(res.Story)
	s.Equal(domain.DefaultProcessingSettings(), res.Settings)
}

func (s *StoryServiceTestSuite) TestCompleteUpload_FinalPartCreatesStory() {
	ctx := context.Background()

	gomock.InOrder(
		s.stories.EXPECT().Get(ctx, "up1").Return(nil, domain.ErrStoryNotFound),
		s.receiver.EXPECT().WriteChunk(ctx, gomock.Any()).Return(&upload.Result{
			UploadID: "up1", Index: 2, Complete: true, Path: "/data/stories/up1.mp4", Size: 42, Hash: "abc",
		}, nil),
	)
	s.files.EXPECT().URLFor("/data/stories/up1.mp4").Return("/uploads/stories/up1.mp4", true)
	s.stories.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), domain.ActionCreated).Return(nil)

	res, err := s.service.CompleteUpload(ctx, s.alice, UploadInput{
		UploadID:    "up1",
		Index:       2,
		Total:       3,
		Filename:    "clip.mp4",
		ContentType: "video/mp4",
		Data:        strings.NewReader("last"),
		Story:       CreateStoryInput{Duration: 8000, Category: "travel", Downloadable: true},
	})

	s.Require().NoError(err)
	s.True(res.Complete)
	s.Require().NotNil(res.Story)
	s.Equal("up1", res.Story.ID)
	s.Equal("/uploads/stories/up1.mp4", res.Story.MediaURL)
	s.Equal(domain.MediaVideo, res.Story.Type)
	s.Equal(8000, res.Story.Duration)
	s.Equal("travel", res.Story.Category)
	s.True(res.Story.Downloadable)
}

func (s *StoryServiceTestSuite) TestCompleteUpload_RepeatedFinalPartReturnsExisting() {
	ctx := context.Background()
	existing := s.story("up1", "alice", s.now)

	s.stories.EXPECT().Get(ctx, "up1").Return(&existing, nil)

	res, err := s.service.CompleteUpload(ctx, s.alice, UploadInput{UploadID: "up1", Total: 1, Data: strings.NewReader("x")})

	s.Require().NoError(err)
	s.True(res.Complete)
	s.Same(&existing, res.Story)
}

func (s *StoryServiceTestSuite) TestCompleteUpload_IDTakenByOtherUser() {
	ctx := context.Background()
	existing := s.story("up1", "alice", s.now)

	// Nothing is written: the receiver mock fails the test if called.
	s.stories.EXPECT().Get(ctx, "up1").Return(&existing, nil).Times(2)

	_, err := s.service.CompleteUpload(ctx, s.bob, UploadInput{UploadID: "up1", Filename: "x.mov", Total: 1, Data: strings.NewReader("x")})
	s.ErrorIs(err, domain.ErrInvalidStory)

	_, err = s.service.CompleteUpload(ctx, s.bob, UploadInput{UploadID: "up1", Index: 0, Total: 3, Data: strings.NewReader("x")})
	s.ErrorIs(err, domain.ErrInvalidStory)
}

func (s *StoryServiceTestSuite) TestCompleteUpload_CreateFailureRemovesFile() {
	ctx := context.Background()

	s.stories.EXPECT().Get(ctx, "up1").Return(nil, domain.ErrStoryNotFound)
	s.receiver.EXPECT().WriteChunk(ctx, gomock.Any()).Return(&upload.Result{UploadID: "up1", Complete: true, Path: "/data/stories/up1.jpg"}, nil)
	s.files.EXPECT().URLFor("/data/stories/up1.jpg").Return("/uploads/stories/up1.jpg", true)
	s.stories.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("connection refused"))
	s.files.EXPECT().Remove("/uploads/stories/up1.jpg").Return(true, nil)

	_, err := s.service.CompleteUpload(ctx, s.alice, UploadInput{
		UploadID: "up1", Total: 1, Filename: "a.jpg", Data: strings.NewReader("x"),
	})
	s.Error(err)
	s.Contains(err.Error(), "create story")
}

func (s *StoryServiceTestSuite) TestCompleteUpload_UnsupportedMediaRemovesFile() {
	ctx := context.Background()

	s.stories.EXPECT().Get(ctx, gomock.Any()).Return(nil, domain.ErrStoryNotFound)
	s.receiver.EXPECT().WriteChunk(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, chunk upload.Chunk) (*upload.Result, error) {
			s.NotEmpty(chunk.UploadID, "single uploads get a generated id")
			return &upload.Result{UploadID: chunk.UploadID, Complete: true, Path: "/data/stories/" + chunk.UploadID + ".txt"}, nil
		},
	)
	s.files.EXPECT().URLFor(gomock.Any()).Return("/uploads/stories/notes.txt", true)
	s.files.EXPECT().Remove("/uploads/stories/notes.txt").Return(true, nil)

	_, err := s.service.CompleteUpload(ctx, s.alice, UploadInput{
		Total:       1,
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Data:        strings.NewReader("hello"),
	})
	s.ErrorIs(err, upload.ErrUnsupportedMedia)
}

func (s *StoryServiceTestSuite) TestCompleteUpload_ChunkedNeedsID() {
	_, err := s.service.CompleteUpload(context.Background(), s.alice, UploadInput{
		Index: 0, Total: 2, Data: strings.NewReader("x"),
	})
	s.ErrorIs(err, upload.ErrInvalidChunk)
}

func (s *StoryServiceTestSuite) TestCompleteUpload_InvalidSettings() {
	_, err := s.service.CompleteUpload(context.Background(), s.alice, UploadInput{
		UploadID: "up1", Total: 1, Data: strings.NewReader("x"),
		Settings: domain.ProcessingSettings{AudioBitrate: 1000},
	})
	s.ErrorIs(err, domain.ErrInvalidSettings)
}

func (s *StoryServiceTestSuite) TestCompleteUpload_MissingChunk() {
	ctx := context.Background()
	s.stories.EXPECT().Get(ctx, "up1").Return(nil, domain.ErrStoryNotFound)
	s.receiver.EXPECT().WriteChunk(ctx, gomock.Any()).Return(nil, upload.ErrMissingChunk)

	_, err := s.service.CompleteUpload(ctx, s.alice, UploadInput{UploadID: "up1", Index: 1, Total: 2, Data: strings.NewReader("x")})
	s.ErrorIs(err, upload.ErrMissingChunk)
}

func (s *StoryServiceTestSuite) TestProcessAudio() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now)
	settings := domain.ProcessingSettings{RemoveBgNoise: true, EnhanceAudio: true, AudioBitrate: 192}

	s.stories.EXPECT().Get(ctx, "s1").Return(&st, nil)
	s.expectOwnedUpload(st)
	s.processor.EXPECT().ProcessAudio(ctx, "/data/stories/s1.mp4", "s1", settings.WithDefaults()).
		Return("/data/processed/processed_s1.mp4", nil)
	s.files.EXPECT().URLFor("/data/processed/processed_s1.mp4").Return("/uploads/processed/processed_s1.mp4", true)
	s.stories.EXPECT().UpdateMedia(ctx, "s1", "/uploads/processed/processed_s1.mp4").Return(nil)

	res, err := s.service.ProcessAudio(ctx, s.alice, "s1", settings)

	s.Require().NoError(err)
	s.Equal("/uploads/processed/processed_s1.mp4", res.Story.MediaURL)
	s.Equal(192, res.Settings.AudioBitrate)
	s.Equal(80, res.Settings.Quality)
}

func (s *StoryServiceTestSuite) expectOwnedUpload(st domain.Story) {
	uploadURL := "/uploads/stories/" + st.ID + ".mp4"
	s.files.EXPECT().StoryMedia(st.MediaURL, st.ID).Return(upload.StoryMedia{UploadURL: uploadURL}, true)
	s.files.EXPECT().Resolve(uploadURL).Return("/data/stories/"+st.ID+".mp4", true)
}

func (s *StoryServiceTestSuite) TestProcessAudio_ForeignMedia() {
	ctx := context.Background()
	st := s.story("b1", "bob", s.now)
	st.MediaURL = "/uploads/stories/a1.mp4"

	s.stories.EXPECT().Get(ctx, "b1").Return(&st, nil)
	s.files.EXPECT().StoryMedia(st.MediaURL, "b1").Return(upload.StoryMedia{}, false)

	_, err := s.service.ProcessAudio(ctx, s.bob, "b1", domain.ProcessingSettings{})
	s.ErrorIs(err, domain.ErrInvalidStory)
}

func (s *StoryServiceTestSuite) TestProcessAudio_UpdateFailureRemovesOutput() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now)

	s.stories.EXPECT().Get(ctx, "s1").Return(&st, nil)
	s.expectOwnedUpload(st)
	s.processor.EXPECT().ProcessAudio(ctx, "/data/stories/s1.mp4", "s1", gomock.Any()).
		Return("/data/processed/processed_s1.mp4", nil)
	s.files.EXPECT().URLFor("/data/processed/processed_s1.mp4").Return("/uploads/processed/processed_s1.mp4", true)
	s.stories.EXPECT().UpdateMedia(ctx, "s1", "/uploads/processed/processed_s1.mp4").Return(errors.New("timeout"))
	s.files.EXPECT().Remove("/uploads/processed/processed_s1.mp4").Return(true, nil)

	_, err := s.service.ProcessAudio(ctx, s.alice, "s1", domain.ProcessingSettings{})
	s.Error(err)
	s.Contains(err.Error(), "update media")
}

func (s *StoryServiceTestSuite) TestProcessAudio_ReprocessKeepsCurrentFile() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now)
	st.MediaURL = "/uploads/processed/processed_s1.mp4"

	s.stories.EXPECT().Get(ctx, "s1").Return(&st, nil)
	s.files.EXPECT().StoryMedia(st.MediaURL, "s1").Return(upload.StoryMedia{
		UploadURL:    "/uploads/stories/s1.mp4",
		ProcessedURL: st.MediaURL,
	}, true)
	s.files.EXPECT().Resolve("/uploads/stories/s1.mp4").Return("/data/stories/s1.mp4", true)
	s.processor.EXPECT().ProcessAudio(ctx, "/data/stories/s1.mp4", "s1", gomock.Any()).
		Return("/data/processed/processed_s1.mp4", nil)
	s.files.EXPECT().URLFor("/data/processed/processed_s1.mp4").Return(st.MediaURL, true)
	s.stories.EXPECT().UpdateMedia(ctx, "s1", st.MediaURL).Return(errors.New("timeout"))

	_, err := s.service.ProcessAudio(ctx, s.alice, "s1", domain.ProcessingSettings{})
	s.Error(err)
}

func (s *StoryServiceTestSuite) TestProcessAudio_NotOwner() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now)
	s.stories.EXPECT().Get(ctx, "s1").Return(&st, nil)

	_, err := s.service.ProcessAudio(ctx, s.bob, "s1", domain.ProcessingSettings{})
	s.ErrorIs(err, domain.ErrStoryNotFound)
}

func (s *StoryServiceTestSuite) TestProcessAudio_ImageStory() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now)
	st.Type = domain.MediaImage
	s.stories.EXPECT().Get(ctx, "s1").Return(&st, nil)

	_, err := s.service.ProcessAudio(ctx, s.alice, "s1", domain.ProcessingSettings{})
	s.ErrorIs(err, domain.ErrInvalidStory)
}

func (s *StoryServiceTestSuite) TestProcessAudio_FileMissing() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now)
	s.stories.EXPECT().Get(ctx, "s1").Return(&st, nil)
	s.expectOwnedUpload(st)
	s.processor.EXPECT().ProcessAudio(ctx, "/data/stories/s1.mp4", "s1", gomock.Any()).
		Return("", fmt.Errorf("%w: s1.mp4", media.ErrMediaNotFound))

	_, err := s.service.ProcessAudio(ctx, s.alice, "s1", domain.ProcessingSettings{})
	s.ErrorIs(err, media.ErrMediaNotFound)
}

func (s *StoryServiceTestSuite) TestProcessAudio_ToolFailure() {
	ctx := context.Background()
	st := s.story("s1", "alice", s.now)
	s.stories.EXPECT().Get(ctx, "s1").Return(&st, nil)
	s.expectOwnedUpload(st)
	s.processor.EXPECT().ProcessAudio(ctx, gomock.Any(), "s1", gomock.Any()).Return("", errors.New("ffmpeg: exit status 1"))

	_, err := s.service.ProcessAudio(ctx, s.alice, "s1", domain.ProcessingSettings{})
	s.Error(err)
	s.Contains(err.Error(), "process audio")
}
